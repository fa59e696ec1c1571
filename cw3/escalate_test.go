package cw3_test

import (
	"context"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/cw3"
	"github.com/angelprotocol/harness/cw3/cw3testing"
	"github.com/angelprotocol/harness/types"
)

func lockedWithdrawPlan(f cw3testing.Fixture, beneficiary string) cw3.EscalationPlan {
	return cw3.EscalationPlan{
		Title:       "Locked withdraw",
		Description: "release locked funds",
		Msgs: []cw3.SubMsg{{
			Contract: f.Accounts.Addr,
			Msg: contract.AccountsExecuteMsg{ProposeLockedWithdraw: &contract.ProposeLockedWithdrawMsg{
				ID:          f.EndowmentID,
				Beneficiary: beneficiary,
				Description: "release locked funds",
				Assets:      []contract.Coin{{Denom: "uusd", Amount: "1000000"}},
			}},
		}},
		EndowmentMultisig: f.Endowment.Addr,
		Proposer:          f.EndowmentMembers[0],
		EndowmentVoters:   f.EndowmentMembers[1:],
		ApTeamMultisig:    f.ApTeam.Addr,
		ApTeamVoters:      f.ApTeamMembers,
	}
}

func addresses(wallets []chain.Wallet) []string {
	r := make([]string, len(wallets))
	for i, w := range wallets {
		r[i] = w.Address
	}
	return r
}

func TestEscalate(t *testing.T) {
	f := cw3testing.NewFixture(3, 3, sdk.NewDecWithPrec(51, 2))
	beneficiary := contract.RandomAddress()
	o := cw3.NewOrchestrator(log.NewNopLogger())

	// when
	res, err := cw3.Escalate(context.Background(), o, lockedWithdrawPlan(f, beneficiary))

	// then
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.EndowmentProposal.ID)
	assert.False(t, res.EndowmentProposal.AutoExecuted)
	assert.Equal(t, uint64(cw3testing.ApTeamProposalIDOffset+1), res.ApTeamProposalID)
	assert.NotEqual(t, res.EndowmentProposal.ID, res.ApTeamProposalID)
	assert.Equal(t, res.ApTeamProposalID, res.Final.ProposalID)

	assert.Equal(t, addresses(f.EndowmentMembers), f.Endowment.VotersOf(res.EndowmentProposal.ID))
	assert.Equal(t, addresses(f.ApTeamMembers), f.ApTeam.VotersOf(res.ApTeamProposalID))
	assert.Equal(t, 1, f.Endowment.Executions[res.EndowmentProposal.ID])
	assert.Equal(t, 1, f.ApTeam.Executions[res.ApTeamProposalID])

	require.Len(t, f.Accounts.Transfers, 1)
	transfer := f.Accounts.Transfers[0]
	assert.Equal(t, beneficiary, transfer.Beneficiary)
	assert.Equal(t, contract.AcctTypeLocked, transfer.AcctType)
	assert.Equal(t, f.EndowmentID, transfer.ID)
}

func TestEscalateAutoExecutedEndowmentProposal(t *testing.T) {
	f := cw3testing.NewFixture(1, 2, sdk.NewDecWithPrec(5, 1))
	o := cw3.NewOrchestrator(log.NewNopLogger())

	res, err := cw3.Escalate(context.Background(), o, lockedWithdrawPlan(f, contract.RandomAddress()))

	require.NoError(t, err)
	assert.True(t, res.EndowmentProposal.AutoExecuted)
	require.Len(t, res.EndowmentProposal.Nested, 1)
	assert.Equal(t, f.ApTeam.Addr, res.EndowmentProposal.Nested[0].Contract)
	assert.Equal(t, res.EndowmentProposal.Nested[0].ID, res.ApTeamProposalID)
	assert.Equal(t, 1, f.Endowment.Executions[res.EndowmentProposal.ID])
	assert.Len(t, f.Accounts.Transfers, 1)
}

func TestEscalateWithExplicitExecutor(t *testing.T) {
	f := cw3testing.NewFixture(2, 2, sdk.NewDecWithPrec(5, 1))
	o := cw3.NewOrchestrator(log.NewNopLogger())
	plan := lockedWithdrawPlan(f, contract.RandomAddress())
	plan.ApTeamExecutor = &f.ApTeamMembers[1]

	res, err := cw3.Escalate(context.Background(), o, plan)

	require.NoError(t, err)
	assert.Equal(t, 1, f.ApTeam.Executions[res.ApTeamProposalID])
	var executors []string
	for _, e := range f.Chain.Executed {
		if e.Contract == f.ApTeam.Addr && e.Sender != f.Accounts.Addr {
			executors = append(executors, e.Sender)
		}
	}
	require.NotEmpty(t, executors)
	assert.Equal(t, f.ApTeamMembers[1].Address, executors[len(executors)-1])
}

func TestEscalateFailures(t *testing.T) {
	specs := map[string]struct {
		mutate func(f cw3testing.Fixture, p *cw3.EscalationPlan)
		expErr *sdkerrors.Error
		expMsg string
		// expApTeamProposal is false when the flow aborted before the second hop
		expApTeamProposal bool
	}{
		"no proposal on ap team": {
			mutate: func(f cw3testing.Fixture, p *cw3.EscalationPlan) {
				target := &cw3testing.Recorder{}
				addr := contract.RandomAddress()
				f.Chain.Register(addr, target)
				p.Msgs = []cw3.SubMsg{{Contract: addr, Msg: `{"ping":{}}`}}
			},
			expErr: types.ErrNotFound,
		},
		"endowment vote by non member": {
			mutate: func(f cw3testing.Fixture, p *cw3.EscalationPlan) {
				p.EndowmentVoters = []chain.Wallet{chain.NewWallet("outsider", contract.RandomAddress(), f.Chain)}
			},
			expErr: types.ErrTransaction,
			expMsg: "unauthorized",
		},
		"endowment votes not sufficient": {
			mutate: func(f cw3testing.Fixture, p *cw3.EscalationPlan) {
				p.EndowmentVoters = nil
			},
			expErr: types.ErrTransaction,
			expMsg: "not passed",
		},
		"ap team votes not sufficient": {
			mutate: func(f cw3testing.Fixture, p *cw3.EscalationPlan) {
				p.ApTeamVoters = p.ApTeamVoters[:1]
			},
			expErr:            types.ErrTransaction,
			expMsg:            "not passed",
			expApTeamProposal: true,
		},
		"no ap team executor": {
			mutate: func(f cw3testing.Fixture, p *cw3.EscalationPlan) {
				p.ApTeamVoters = nil
			},
			expErr:            types.ErrEmpty,
			expApTeamProposal: true,
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			f := cw3testing.NewFixture(3, 3, sdk.NewDecWithPrec(51, 2))
			plan := lockedWithdrawPlan(f, contract.RandomAddress())
			spec.mutate(f, &plan)
			o := cw3.NewOrchestrator(log.NewNopLogger())

			// when
			_, err := cw3.Escalate(context.Background(), o, plan)

			// then
			require.Error(t, err)
			assert.True(t, spec.expErr.Is(err), "got %+v", err)
			if spec.expMsg != "" {
				assert.Contains(t, err.Error(), spec.expMsg)
			}
			assert.Empty(t, f.Accounts.Transfers)
			if spec.expApTeamProposal {
				assert.Equal(t, uint64(cw3testing.ApTeamProposalIDOffset+1), f.ApTeam.LastProposalID())
			} else {
				assert.Equal(t, uint64(cw3testing.ApTeamProposalIDOffset), f.ApTeam.LastProposalID())
			}
		})
	}
}
