package cw3

import (
	"context"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/types"
)

// EscalationPlan describes a proposal on an endowment multisig whose execution creates a second
// proposal on the ap team multisig.
type EscalationPlan struct {
	Title       string
	Description string
	Msgs        []SubMsg

	EndowmentMultisig string
	// Proposer votes implicitly with the proposal
	Proposer chain.Wallet
	// EndowmentVoters are the other endowment members, in voting order
	EndowmentVoters []chain.Wallet

	ApTeamMultisig string
	// ApTeamVoters in voting order
	ApTeamVoters []chain.Wallet
	// ApTeamExecutor sends the final execute. Defaults to the first ap team voter.
	ApTeamExecutor *chain.Wallet
}

// EscalationResult ids of both hops
type EscalationResult struct {
	EndowmentProposal Proposal
	ApTeamProposalID  uint64
	Final             ExecuteResult
}

// Escalate runs the two hops: propose, vote and execute on the endowment multisig, then vote and
// execute the proposal that this created on the ap team multisig. The first failure aborts; nothing
// is rolled back.
func Escalate(ctx context.Context, o *Orchestrator, plan EscalationPlan) (EscalationResult, error) {
	var result EscalationResult
	logger := o.logger.With("endowment_multisig", plan.EndowmentMultisig, "ap_team_multisig", plan.ApTeamMultisig)

	logger.Info("propose on endowment multisig", "title", plan.Title)
	p, err := o.Propose(ctx, plan.Proposer, plan.EndowmentMultisig, plan.Title, plan.Description, plan.Msgs...)
	if err != nil {
		return result, err
	}
	result.EndowmentProposal = p

	nested := p.Nested
	if !p.AutoExecuted {
		logger.Info("vote on endowment proposal", "proposal_id", p.ID, "voters", len(plan.EndowmentVoters))
		if err := o.VoteAll(ctx, plan.EndowmentVoters, plan.EndowmentMultisig, p.ID, contract.YesVote); err != nil {
			return result, err
		}
		logger.Info("execute endowment proposal", "proposal_id", p.ID)
		exec, err := o.Execute(ctx, plan.Proposer, plan.EndowmentMultisig, p.ID)
		if err != nil {
			return result, err
		}
		nested = exec.Nested
	}

	apID, ok := NestedOn(nested, plan.ApTeamMultisig)
	if !ok {
		return result, sdkerrors.Wrapf(types.ErrNotFound, "no proposal created on %s by endowment proposal %d", plan.ApTeamMultisig, p.ID)
	}
	result.ApTeamProposalID = apID

	logger.Info("vote on ap team proposal", "proposal_id", apID, "voters", len(plan.ApTeamVoters))
	if err := o.VoteAll(ctx, plan.ApTeamVoters, plan.ApTeamMultisig, apID, contract.YesVote); err != nil {
		return result, err
	}
	executor := plan.ApTeamExecutor
	if executor == nil {
		if len(plan.ApTeamVoters) == 0 {
			return result, sdkerrors.Wrap(types.ErrEmpty, "ap team executor")
		}
		executor = &plan.ApTeamVoters[0]
	}
	logger.Info("execute ap team proposal", "proposal_id", apID)
	final, err := o.Execute(ctx, *executor, plan.ApTeamMultisig, apID)
	if err != nil {
		return result, err
	}
	result.Final = final
	logger.Info("escalation done", "endowment_proposal_id", p.ID, "ap_team_proposal_id", apID)
	return result, nil
}
