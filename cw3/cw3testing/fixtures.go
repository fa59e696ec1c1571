package cw3testing

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/contract"
)

// ApTeamProposalIDOffset keeps ap team proposal ids apart from endowment ones
const ApTeamProposalIDOffset = 1000

// Fixture is a mock chain with an accounts contract, an endowment multisig owning endowment 1 and
// the ap team multisig
type Fixture struct {
	Chain            *MockChain
	Accounts         *MockAccounts
	Endowment        *MockMultisig
	EndowmentMembers []chain.Wallet
	ApTeam           *MockMultisig
	ApTeamMembers    []chain.Wallet
	EndowmentID      uint32
}

// NewFixture sets up both multisigs with members of weight 1
func NewFixture(endowmentMembers, apTeamMembers int, threshold sdk.Dec) Fixture {
	c := NewMockChain()
	f := Fixture{Chain: c}

	f.ApTeamMembers = RandomWallets(c, apTeamMembers)
	f.ApTeam = NewMockMultisig(contract.RandomAddress(), toMembers(f.ApTeamMembers), threshold, ApTeamProposalIDOffset)
	c.Register(f.ApTeam.Addr, f.ApTeam)

	f.EndowmentMembers = RandomWallets(c, endowmentMembers)
	f.Endowment = NewMockMultisig(contract.RandomAddress(), toMembers(f.EndowmentMembers), threshold, 0)
	c.Register(f.Endowment.Addr, f.Endowment)

	f.Accounts = NewMockAccounts(contract.RandomAddress(), f.ApTeam.Addr)
	c.Register(f.Accounts.Addr, f.Accounts)
	f.ApTeam.Proposers[f.Accounts.Addr] = true

	f.EndowmentID = 1
	f.Accounts.Endowments[f.EndowmentID] = f.Endowment.Addr
	f.Accounts.lastID = f.EndowmentID
	return f
}

// RandomWallets returns wallets with random addresses that sign on the chain
func RandomWallets(c chain.Client, n int) []chain.Wallet {
	r := make([]chain.Wallet, n)
	for i := range r {
		r[i] = chain.NewWallet("", contract.RandomAddress(), c)
	}
	return r
}

func toMembers(wallets []chain.Wallet) []contract.Member {
	r := make([]contract.Member, len(wallets))
	for i, w := range wallets {
		r[i] = contract.Member{Addr: w.Address, Weight: 1}
	}
	return r
}
