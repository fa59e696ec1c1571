package cw3testing

import (
	"encoding/json"
	"fmt"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/chain/chaintesting"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/types"
)

// MockAccounts holds endowments by id. A locked withdrawal is proposed by the endowment multisig
// and creates a proposal on the ap team multisig that runs withdraw_locked.
type MockAccounts struct {
	Addr           string
	ApTeamMultisig string
	// Endowments maps the endowment id to its owning multisig
	Endowments map[uint32]string
	Deposits   []contract.DepositMsg
	// Transfers are the executed withdrawals
	Transfers []contract.WithdrawMsg
	// MultisigFactory creates the endowment multisig. Without it the owner holds the endowment.
	MultisigFactory func(c *MockChain, msg contract.CreateEndowmentMsg) string
	lastID          uint32
}

func NewMockAccounts(addr, apTeamMultisig string) *MockAccounts {
	return &MockAccounts{
		Addr:           addr,
		ApTeamMultisig: apTeamMultisig,
		Endowments:     make(map[uint32]string),
	}
}

func (a *MockAccounts) Execute(c *MockChain, sender string, msg []byte, funds sdk.Coins) ([]chain.Event, error) {
	var parsed contract.AccountsExecuteMsg
	if err := json.Unmarshal(msg, &parsed); err != nil {
		return nil, err
	}
	if err := parsed.ValidateBasic(); err != nil {
		return nil, err
	}
	switch {
	case parsed.CreateEndowment != nil:
		owner := parsed.CreateEndowment.Owner
		if a.MultisigFactory != nil {
			owner = a.MultisigFactory(c, *parsed.CreateEndowment)
		}
		a.lastID++
		a.Endowments[a.lastID] = owner
		return []chain.Event{chaintesting.WasmEvent(a.Addr,
			"action", "create_endowment",
			types.AttributeKeyEndowID, strconv.FormatUint(uint64(a.lastID), 10),
			types.AttributeKeyEndowAddr, owner,
		)}, nil
	case parsed.Deposit != nil:
		if _, ok := a.Endowments[parsed.Deposit.ID]; !ok {
			return nil, fmt.Errorf("endowment %d: not found", parsed.Deposit.ID)
		}
		if funds.Empty() {
			return nil, fmt.Errorf("no funds sent")
		}
		a.Deposits = append(a.Deposits, *parsed.Deposit)
		return []chain.Event{chaintesting.WasmEvent(a.Addr, "action", "account_deposit", "endow_id", strconv.FormatUint(uint64(parsed.Deposit.ID), 10))}, nil
	case parsed.Withdraw != nil:
		if err := a.requireOwner(sender, parsed.Withdraw.ID); err != nil {
			return nil, err
		}
		if parsed.Withdraw.AcctType == contract.AcctTypeLocked {
			return nil, ErrUnauthorized
		}
		a.Transfers = append(a.Transfers, *parsed.Withdraw)
		return []chain.Event{chaintesting.WasmEvent(a.Addr, "action", "withdraw")}, nil
	case parsed.ProposeLockedWithdraw != nil:
		return a.proposeLockedWithdraw(c, sender, *parsed.ProposeLockedWithdraw)
	case parsed.WithdrawLocked != nil:
		if sender != a.ApTeamMultisig {
			return nil, ErrUnauthorized
		}
		a.Transfers = append(a.Transfers, *parsed.WithdrawLocked)
		return []chain.Event{chaintesting.WasmEvent(a.Addr, "action", "withdraw_locked",
			"beneficiary", parsed.WithdrawLocked.Beneficiary)}, nil
	default:
		return nil, fmt.Errorf("unsupported message")
	}
}

func (a *MockAccounts) proposeLockedWithdraw(c *MockChain, sender string, msg contract.ProposeLockedWithdrawMsg) ([]chain.Event, error) {
	if err := a.requireOwner(sender, msg.ID); err != nil {
		return nil, err
	}
	sub, err := contract.ExecuteCosmosMsg(a.Addr, contract.AccountsExecuteMsg{WithdrawLocked: &contract.WithdrawMsg{
		ID:          msg.ID,
		AcctType:    contract.AcctTypeLocked,
		Beneficiary: msg.Beneficiary,
		Assets:      msg.Assets,
	}}, nil)
	if err != nil {
		return nil, err
	}
	proposal, err := json.Marshal(contract.NewProposeMsg("Locked withdraw request", msg.Description, sub))
	if err != nil {
		return nil, err
	}
	events, err := c.Dispatch(a.Addr, a.ApTeamMultisig, proposal, nil)
	if err != nil {
		return nil, err
	}
	return append([]chain.Event{chaintesting.WasmEvent(a.Addr, "action", "propose_locked_withdraw",
		types.AttributeKeyEndowID, strconv.FormatUint(uint64(msg.ID), 10))}, events...), nil
}

func (a *MockAccounts) requireOwner(sender string, id uint32) error {
	owner, ok := a.Endowments[id]
	if !ok {
		return fmt.Errorf("endowment %d: not found", id)
	}
	if owner != sender {
		return ErrUnauthorized
	}
	return nil
}
