package cw3

import (
	"context"

	wasmvmtypes "github.com/CosmWasm/wasmvm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/types"
)

// Orchestrator drives propose, vote and execute on cw3 multisigs. All transactions are sent one
// after another; every call returns only after its tx was included in a block.
type Orchestrator struct {
	logger log.Logger
}

func NewOrchestrator(logger log.Logger) *Orchestrator {
	return &Orchestrator{logger: logger.With("module", "cw3")}
}

// Propose wraps all sub messages into a single proposal. They are executed together or not at all.
// Callers must check Proposal.AutoExecuted before executing.
func (o Orchestrator) Propose(ctx context.Context, proposer chain.Wallet, multisig, title, description string, msgs ...SubMsg) (Proposal, error) {
	cosmosMsgs := make([]wasmvmtypes.CosmosMsg, len(msgs))
	for i, m := range msgs {
		cm, err := contract.ExecuteCosmosMsg(m.Contract, m.Msg, m.Funds)
		if err != nil {
			return Proposal{}, sdkerrors.Wrapf(err, "sub message %d", i)
		}
		cosmosMsgs[i] = cm
	}
	p, err := o.ProposeMsg(ctx, proposer, multisig, contract.NewProposeMsg(title, description, cosmosMsgs...), nil)
	if err != nil {
		return Proposal{}, err
	}
	p.Msgs = cosmosMsgs
	return p, nil
}

// ProposeMsg sends a prebuilt proposal message, for example propose_application, to the multisig
func (o Orchestrator) ProposeMsg(ctx context.Context, proposer chain.Wallet, multisig string, msg interface{}, funds sdk.Coins) (Proposal, error) {
	res, err := proposer.Execute(ctx, multisig, msg, funds)
	if err != nil {
		return Proposal{}, sdkerrors.Wrapf(err, "propose on %s", multisig)
	}
	p, err := DecodeProposeResponse(res, multisig)
	if err != nil {
		return Proposal{}, sdkerrors.Wrapf(err, "propose on %s", multisig)
	}
	o.logger.Info("proposal created", "multisig", multisig, "proposal_id", p.ID, "status", p.Status,
		"auto_executed", p.AutoExecuted, "proposer", proposer.String(), "tx", res.TxHash)
	return p, nil
}

// VoteAll casts the vote for every member in the given order. There is no early exit when the
// threshold is reached. The first failing vote aborts.
func (o Orchestrator) VoteAll(ctx context.Context, members []chain.Wallet, multisig string, proposalID uint64, vote contract.Vote) error {
	return o.voteAll(ctx, members, multisig, proposalID, contract.NewVoteMsg(proposalID, vote))
}

// VoteApplicationAll is VoteAll for the review team multisig
func (o Orchestrator) VoteApplicationAll(ctx context.Context, members []chain.Wallet, multisig string, proposalID uint64, vote contract.Vote, reason string) error {
	return o.voteAll(ctx, members, multisig, proposalID, contract.NewVoteApplicationMsg(proposalID, vote, reason))
}

func (o Orchestrator) voteAll(ctx context.Context, members []chain.Wallet, multisig string, proposalID uint64, msg contract.CW3ExecuteMsg) error {
	for i, m := range members {
		res, err := m.Execute(ctx, multisig, msg, nil)
		if err != nil {
			return sdkerrors.Wrapf(err, "vote of member %d %s on proposal %d", i, m, proposalID)
		}
		status, _ := res.ContractAttribute(types.EventTypeWasm, multisig, types.AttributeKeyStatus)
		o.logger.Info("voted", "multisig", multisig, "proposal_id", proposalID, "member", m.String(), "status", status)
	}
	return nil
}

// Execute runs a passed proposal. Proposals that other contracts create during execution are returned.
func (o Orchestrator) Execute(ctx context.Context, sender chain.Wallet, multisig string, proposalID uint64) (ExecuteResult, error) {
	res, err := sender.Execute(ctx, multisig, contract.NewExecuteProposalMsg(proposalID), nil)
	if err != nil {
		return ExecuteResult{}, sdkerrors.Wrapf(err, "execute proposal %d on %s", proposalID, multisig)
	}
	result, err := DecodeExecuteResponse(res, multisig, proposalID)
	if err != nil {
		return ExecuteResult{}, sdkerrors.Wrapf(err, "execute proposal %d on %s", proposalID, multisig)
	}
	o.logger.Info("proposal executed", "multisig", multisig, "proposal_id", proposalID, "nested", len(result.Nested), "tx", res.TxHash)
	return result, nil
}

// QueryProposal returns the proposal state from the multisig
func QueryProposal(ctx context.Context, q chain.Querier, multisig string, proposalID uint64) (*contract.ProposalResponse, error) {
	var rsp contract.ProposalResponse
	if err := chain.QuerySmart(ctx, q, multisig, contract.CW3Query{Proposal: &contract.ProposalID{ProposalID: proposalID}}, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// Pass gets the sub messages executed by the multisig. The first member proposes, the others vote
// yes in order and the first member executes, unless the proposal was executed on creation.
func (o Orchestrator) Pass(ctx context.Context, members []chain.Wallet, multisig, title, description string, msgs ...SubMsg) (Proposal, error) {
	if len(members) == 0 {
		return Proposal{}, sdkerrors.Wrapf(types.ErrInvalidMsg, "no members to pass %q on %s", title, multisig)
	}
	p, err := o.Propose(ctx, members[0], multisig, title, description, msgs...)
	if err != nil || p.AutoExecuted {
		return p, err
	}
	if err := o.VoteAll(ctx, members[1:], multisig, p.ID, contract.YesVote); err != nil {
		return p, err
	}
	res, err := o.Execute(ctx, members[0], multisig, p.ID)
	if err != nil {
		return p, err
	}
	p.Status = contract.ProposalStatusExecuted
	p.Nested = res.Nested
	return p, nil
}
