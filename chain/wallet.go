package chain

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Wallet binds a signing key to the client holding it
type Wallet struct {
	// Name of the key in the keyring, for logging
	Name    string
	Address string
	client  Client
}

func NewWallet(name, address string, c Client) Wallet {
	return Wallet{Name: name, Address: address, client: c}
}

// Client returns the client that signs for this wallet
func (w Wallet) Client() Client {
	return w.client
}

// Execute sends msg to the contract signed by this wallet
func (w Wallet) Execute(ctx context.Context, contractAddr string, msg interface{}, funds sdk.Coins) (*TxResult, error) {
	return SendTransaction(ctx, w.client, w.Address, contractAddr, msg, funds)
}

func (w Wallet) String() string {
	if w.Name == "" {
		return w.Address
	}
	return w.Name + "(" + w.Address + ")"
}
