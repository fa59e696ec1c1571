package chain

import (
	"context"
	"encoding/json"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/types"
)

// Querier runs read only requests against a node
type Querier interface {
	// QuerySmart runs a smart query on the contract and returns the raw json response
	QuerySmart(ctx context.Context, contractAddr string, query []byte) ([]byte, error)
	// Balance returns the bank balance of addr for the given denom
	Balance(ctx context.Context, addr, denom string) (sdk.Coin, error)
}

// Client signs and broadcasts wasm transactions for any key it holds. Every method broadcasts a
// single tx and returns once it was included in a block. A non-zero result code is returned as
// ErrTransaction together with the result.
type Client interface {
	Querier
	Execute(ctx context.Context, sender, contractAddr string, msg []byte, funds sdk.Coins) (*TxResult, error)
	StoreCode(ctx context.Context, sender string, wasmCode []byte) (*TxResult, error)
	Instantiate(ctx context.Context, sender string, req InstantiateRequest) (*TxResult, error)
	Migrate(ctx context.Context, sender, contractAddr string, codeID uint64, msg []byte) (*TxResult, error)
	UpdateAdmin(ctx context.Context, sender, contractAddr, newAdmin string) (*TxResult, error)
}

// InstantiateRequest new contract instance parameters
type InstantiateRequest struct {
	CodeID uint64
	Label  string
	// Admin empty for no admin
	Admin string
	Msg   []byte
	Funds sdk.Coins
}

type validatable interface {
	ValidateBasic() error
}

// MarshalMsg returns the json bytes of a contract message. Raw bytes and strings are passed through;
// messages that can validate themselves are validated first.
func MarshalMsg(msg interface{}) ([]byte, error) {
	switch m := msg.(type) {
	case nil:
		return nil, sdkerrors.Wrap(types.ErrInvalidMsg, "nil message")
	case []byte:
		return m, nil
	case json.RawMessage:
		return m, nil
	case string:
		return []byte(m), nil
	}
	if v, ok := msg.(validatable); ok {
		if err := v.ValidateBasic(); err != nil {
			return nil, sdkerrors.Wrapf(types.ErrInvalidMsg, "%T: %s", msg, err)
		}
	}
	bz, err := json.Marshal(msg)
	if err != nil {
		return nil, sdkerrors.Wrapf(types.ErrInvalidMsg, "serialize %T: %s", msg, err)
	}
	return bz, nil
}

// SendTransaction executes msg on the contract signed by sender. Gas is estimated by the client.
// Any failure is returned as ErrTransaction, nothing is retried.
func SendTransaction(ctx context.Context, c Client, sender, contractAddr string, msg interface{}, funds sdk.Coins) (*TxResult, error) {
	bz, err := MarshalMsg(msg)
	if err != nil {
		return nil, err
	}
	res, err := c.Execute(ctx, sender, contractAddr, bz, funds)
	return CheckResult(res, err, "execute "+contractAddr)
}

// CheckResult normalizes the outcome of a broadcast: every failure is returned as ErrTransaction,
// including results with a non zero code.
func CheckResult(res *TxResult, err error, action string) (*TxResult, error) {
	switch {
	case err == nil && res == nil:
		return nil, sdkerrors.Wrapf(types.ErrTransaction, "%s: empty result", action)
	case err == nil:
		return res, res.Err()
	case types.ErrTransaction.Is(err):
		return res, err
	default:
		return res, sdkerrors.Wrapf(types.ErrTransaction, "%s: %s", action, err)
	}
}

// QuerySmart marshals the query and unmarshals the contract response into result
func QuerySmart(ctx context.Context, q Querier, contractAddr string, query interface{}, result interface{}) error {
	bz, err := MarshalMsg(query)
	if err != nil {
		return err
	}
	rsp, err := q.QuerySmart(ctx, contractAddr, bz)
	if err != nil {
		return sdkerrors.Wrapf(err, "query %s", contractAddr)
	}
	if err := json.Unmarshal(rsp, result); err != nil {
		return sdkerrors.Wrapf(types.ErrUnexpectedResult, "query response %T: %s", result, err)
	}
	return nil
}
