package cw3

import (
	"strconv"

	wasmvmtypes "github.com/CosmWasm/wasmvm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/types"
)

// SubMsg is a contract execution wrapped into a proposal
type SubMsg struct {
	Contract string
	Msg      interface{}
	Funds    sdk.Coins
}

// Proposal as created on a multisig
type Proposal struct {
	ID           uint64
	Status       contract.ProposalStatus
	AutoExecuted bool
	Multisig     string
	Msgs         []wasmvmtypes.CosmosMsg
	// Nested proposals created by an auto executed proposal
	Nested []NestedProposal
}

// NestedProposal is a proposal that was created on another multisig while executing
type NestedProposal struct {
	Contract string
	ID       uint64
}

// ExecuteResult of executing a proposal
type ExecuteResult struct {
	ProposalID uint64
	Nested     []NestedProposal
	TxHash     string
}

// NestedOn returns the id of the first nested proposal created on the given multisig
func NestedOn(nested []NestedProposal, multisig string) (uint64, bool) {
	for _, n := range nested {
		if n.Contract == multisig {
			return n.ID, true
		}
	}
	return 0, false
}

// DecodeProposeResponse reads the proposal id, status and auto execution flag of a propose tx.
// The values are taken from the first wasm event.
func DecodeProposeResponse(r *chain.TxResult, multisig string) (Proposal, error) {
	if err := r.Err(); err != nil {
		return Proposal{}, err
	}
	rawID, err := r.RequireAttribute(types.EventTypeWasm, types.AttributeKeyProposalID)
	if err != nil {
		return Proposal{}, err
	}
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return Proposal{}, sdkerrors.Wrapf(types.ErrUnexpectedResult, "proposal id %q", rawID)
	}
	status, _ := r.Attribute(types.EventTypeWasm, types.AttributeKeyStatus)
	autoExecuted, _ := r.Attribute(types.EventTypeWasm, types.AttributeKeyAutoExecuted)
	p := Proposal{
		ID:           id,
		Status:       contract.ProposalStatus(status),
		AutoExecuted: autoExecuted == types.AttributeValueTrue,
		Multisig:     multisig,
	}
	if p.AutoExecuted {
		if p.Nested, err = nestedProposals(r, multisig); err != nil {
			return Proposal{}, err
		}
	}
	return p, nil
}

// DecodeExecuteResponse collects the proposals that other contracts created while the proposal was executed
func DecodeExecuteResponse(r *chain.TxResult, multisig string, proposalID uint64) (ExecuteResult, error) {
	if err := r.Err(); err != nil {
		return ExecuteResult{}, err
	}
	nested, err := nestedProposals(r, multisig)
	if err != nil {
		return ExecuteResult{}, err
	}
	return ExecuteResult{ProposalID: proposalID, Nested: nested, TxHash: r.TxHash}, nil
}

// nestedProposals returns all proposal ids emitted by contracts other than the multisig
func nestedProposals(r *chain.TxResult, multisig string) ([]NestedProposal, error) {
	var result []NestedProposal
	for _, e := range r.Events(types.EventTypeWasm) {
		for _, s := range e.Segments() {
			addr, ok := s.Attribute(types.AttributeKeyContractAddr)
			if !ok || addr == multisig {
				continue
			}
			rawID, ok := s.Attribute(types.AttributeKeyProposalID)
			if !ok {
				continue
			}
			id, err := strconv.ParseUint(rawID, 10, 64)
			if err != nil {
				return nil, sdkerrors.Wrapf(types.ErrUnexpectedResult, "nested proposal id %q of %s", rawID, addr)
			}
			result = append(result, NestedProposal{Contract: addr, ID: id})
		}
	}
	return result, nil
}
