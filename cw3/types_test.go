package cw3_test

import (
	"testing"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/chain/chaintesting"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/cw3"
	"github.com/angelprotocol/harness/types"
)

func TestDecodeProposeResponse(t *testing.T) {
	multisig := contract.RandomAddress()
	other := contract.RandomAddress()
	apTeam := contract.RandomAddress()

	specs := map[string]struct {
		src    *chain.TxResult
		exp    cw3.Proposal
		expErr *sdkerrors.Error
	}{
		"open proposal": {
			src: chaintesting.TxResultFixture(chaintesting.WasmEvent(multisig,
				"action", "propose", "proposal_id", "7", "status", "open", "auto-executed", "false")),
			exp: cw3.Proposal{ID: 7, Status: contract.ProposalStatusOpen, Multisig: multisig},
		},
		"auto executed with nested proposal": {
			src: chaintesting.TxResultFixture(chaintesting.Flatten(
				chaintesting.WasmEvent(multisig, "action", "propose", "proposal_id", "2", "status", "executed", "auto-executed", "true"),
				chaintesting.WasmEvent(other, "action", "propose_locked_withdraw", "endow_id", "1"),
				chaintesting.WasmEvent(apTeam, "action", "propose", "proposal_id", "1001", "status", "open"),
			)...),
			exp: cw3.Proposal{
				ID:           2,
				Status:       contract.ProposalStatusExecuted,
				AutoExecuted: true,
				Multisig:     multisig,
				Nested:       []cw3.NestedProposal{{Contract: apTeam, ID: 1001}},
			},
		},
		"nested proposals ignored when not auto executed": {
			src: chaintesting.TxResultFixture(chaintesting.Flatten(
				chaintesting.WasmEvent(multisig, "proposal_id", "3", "status", "open", "auto-executed", "false"),
				chaintesting.WasmEvent(apTeam, "proposal_id", "1001"),
			)...),
			exp: cw3.Proposal{ID: 3, Status: contract.ProposalStatusOpen, Multisig: multisig},
		},
		"proposal id only in a later wasm event": {
			src: chaintesting.TxResultFixture(
				chaintesting.WasmEvent(multisig, "action", "propose"),
				chaintesting.WasmEvent(multisig, "proposal_id", "1"),
			),
			expErr: types.ErrAttributeNotFound,
		},
		"no wasm event": {
			src:    chaintesting.TxResultFixture(chaintesting.Event(types.EventTypeMessage, "module", "wasm")),
			expErr: types.ErrEventNotFound,
		},
		"invalid proposal id": {
			src:    chaintesting.TxResultFixture(chaintesting.WasmEvent(multisig, "proposal_id", "one")),
			expErr: types.ErrUnexpectedResult,
		},
		"failed tx": {
			src:    chaintesting.FailedTxResultFixture(5, "unauthorized"),
			expErr: types.ErrTransaction,
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			got, gotErr := cw3.DecodeProposeResponse(spec.src, multisig)
			if spec.expErr != nil {
				require.Error(t, gotErr)
				assert.True(t, spec.expErr.Is(gotErr), "got %+v", gotErr)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, spec.exp, got)
		})
	}
}

func TestDecodeExecuteResponse(t *testing.T) {
	multisig := contract.RandomAddress()
	accounts := contract.RandomAddress()
	apTeam := contract.RandomAddress()

	specs := map[string]struct {
		src    *chain.TxResult
		exp    []cw3.NestedProposal
		expErr *sdkerrors.Error
	}{
		"no nested": {
			src: chaintesting.TxResultFixture(chaintesting.Flatten(
				chaintesting.WasmEvent(multisig, "action", "execute", "proposal_id", "4"),
				chaintesting.WasmEvent(accounts, "action", "withdraw"),
			)...),
		},
		"nested on ap team": {
			src: chaintesting.TxResultFixture(chaintesting.Flatten(
				chaintesting.WasmEvent(multisig, "action", "execute", "proposal_id", "4"),
				chaintesting.WasmEvent(accounts, "action", "propose_locked_withdraw"),
				chaintesting.WasmEvent(apTeam, "action", "propose", "proposal_id", "1001"),
			)...),
			exp: []cw3.NestedProposal{{Contract: apTeam, ID: 1001}},
		},
		"unflattened events": {
			src: chaintesting.TxResultFixture(
				chaintesting.WasmEvent(multisig, "action", "execute", "proposal_id", "4"),
				chaintesting.WasmEvent(apTeam, "action", "propose", "proposal_id", "1001"),
			),
			exp: []cw3.NestedProposal{{Contract: apTeam, ID: 1001}},
		},
		"invalid nested id": {
			src: chaintesting.TxResultFixture(chaintesting.Flatten(
				chaintesting.WasmEvent(multisig, "proposal_id", "4"),
				chaintesting.WasmEvent(apTeam, "proposal_id", "x"),
			)...),
			expErr: types.ErrUnexpectedResult,
		},
		"failed tx": {
			src:    chaintesting.FailedTxResultFixture(5, "proposal not passed"),
			expErr: types.ErrTransaction,
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			got, gotErr := cw3.DecodeExecuteResponse(spec.src, multisig, 4)
			if spec.expErr != nil {
				require.Error(t, gotErr)
				assert.True(t, spec.expErr.Is(gotErr), "got %+v", gotErr)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, uint64(4), got.ProposalID)
			assert.Equal(t, spec.src.TxHash, got.TxHash)
			assert.Equal(t, spec.exp, got.Nested)
		})
	}
}

func TestNestedOn(t *testing.T) {
	a, b := contract.RandomAddress(), contract.RandomAddress()
	nested := []cw3.NestedProposal{{Contract: a, ID: 1}, {Contract: b, ID: 2}, {Contract: b, ID: 3}}

	id, ok := cw3.NestedOn(nested, b)
	assert.True(t, ok)
	assert.Equal(t, uint64(2), id)

	_, ok = cw3.NestedOn(nested, contract.RandomAddress())
	assert.False(t, ok)
	_, ok = cw3.NestedOn(nil, a)
	assert.False(t, ok)
}
