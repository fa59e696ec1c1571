package chain_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/chain/chaintesting"
	"github.com/angelprotocol/harness/types"
)

func TestAttribute(t *testing.T) {
	specs := map[string]struct {
		src      *chain.TxResult
		srcType  string
		srcKey   string
		expValue string
		expFound bool
	}{
		"found in first event": {
			src: chaintesting.TxResultFixture(
				chaintesting.Event(types.EventTypeMessage, "action", "execute"),
				chaintesting.WasmEvent("contract1", "proposal_id", "7"),
			),
			srcType:  types.EventTypeWasm,
			srcKey:   types.AttributeKeyProposalID,
			expValue: "7",
			expFound: true,
		},
		"first of duplicate keys": {
			src: chaintesting.TxResultFixture(
				chaintesting.WasmEvent("contract1", "proposal_id", "7", "proposal_id", "8"),
			),
			srcType:  types.EventTypeWasm,
			srcKey:   types.AttributeKeyProposalID,
			expValue: "7",
			expFound: true,
		},
		"event type not found": {
			src:     chaintesting.TxResultFixture(chaintesting.Event(types.EventTypeMessage, "action", "execute")),
			srcType: types.EventTypeWasm,
			srcKey:  types.AttributeKeyProposalID,
		},
		"key not in event": {
			src:     chaintesting.TxResultFixture(chaintesting.WasmEvent("contract1", "action", "propose")),
			srcType: types.EventTypeWasm,
			srcKey:  types.AttributeKeyProposalID,
		},
		"no logs": {
			src:     &chain.TxResult{},
			srcType: types.EventTypeWasm,
			srcKey:  types.AttributeKeyProposalID,
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			gotValue, gotFound := spec.src.Attribute(spec.srcType, spec.srcKey)
			assert.Equal(t, spec.expFound, gotFound)
			assert.Equal(t, spec.expValue, gotValue)
		})
	}
}

// only the first event of a type is inspected, a later event with the key is ignored
func TestAttributeInspectsFirstEventOnly(t *testing.T) {
	res := &chain.TxResult{Logs: []chain.MsgLog{
		{Events: []chain.Event{chaintesting.WasmEvent("contract1", "action", "vote")}},
		{Events: []chain.Event{chaintesting.WasmEvent("contract2", "proposal_id", "3")}},
	}}
	_, found := res.Attribute(types.EventTypeWasm, types.AttributeKeyProposalID)
	assert.False(t, found)

	_, err := res.RequireAttribute(types.EventTypeWasm, types.AttributeKeyProposalID)
	assert.True(t, types.ErrAttributeNotFound.Is(err), "got %#+v", err)

	v, found := res.ContractAttribute(types.EventTypeWasm, "contract2", types.AttributeKeyProposalID)
	assert.True(t, found)
	assert.Equal(t, "3", v)
}

func TestRequireAttribute(t *testing.T) {
	res := chaintesting.TxResultFixture(chaintesting.WasmEvent("contract1", "action", "propose"))

	_, err := res.RequireAttribute(types.EventTypeInstantiate, types.AttributeKeyContractAddr)
	assert.True(t, types.ErrEventNotFound.Is(err), "got %#+v", err)

	_, err = res.RequireAttribute(types.EventTypeWasm, types.AttributeKeyProposalID)
	assert.True(t, types.ErrAttributeNotFound.Is(err), "got %#+v", err)

	v, err := res.RequireAttribute(types.EventTypeWasm, types.AttributeKeyAction)
	require.NoError(t, err)
	assert.Equal(t, "propose", v)
}

func TestSegments(t *testing.T) {
	flat := chaintesting.Flatten(
		chaintesting.WasmEvent("multisig", "action", "execute", "proposal_id", "1"),
		chaintesting.WasmEvent("accounts", "action", "propose_locked_withdraw"),
		chaintesting.WasmEvent("apteam", "action", "propose", "proposal_id", "2"),
	)
	require.Len(t, flat, 1)

	segments := flat[0].Segments()
	require.Len(t, segments, 3)
	for i, exp := range []string{"multisig", "accounts", "apteam"} {
		addr, ok := segments[i].Attribute(types.AttributeKeyContractAddr)
		require.True(t, ok)
		assert.Equal(t, exp, addr)
	}

	res := chaintesting.TxResultFixture(flat...)
	v, ok := res.ContractAttribute(types.EventTypeWasm, "apteam", types.AttributeKeyProposalID)
	require.True(t, ok)
	assert.Equal(t, "2", v)
	_, ok = res.ContractAttribute(types.EventTypeWasm, "accounts", types.AttributeKeyProposalID)
	assert.False(t, ok)
	// flat lookup returns the first value
	v, _ = res.Attribute(types.EventTypeWasm, types.AttributeKeyProposalID)
	assert.Equal(t, "1", v)
}

func TestSegmentsWithLeadingAttributes(t *testing.T) {
	e := chain.Event{Type: types.EventTypeWasm, Attributes: []chain.Attribute{
		{Key: "action", Value: "foo"},
		{Key: types.AttributeKeyContractAddr, Value: "contract1"},
	}}
	segments := e.Segments()
	require.Len(t, segments, 2)
	_, ok := segments[0].Attribute(types.AttributeKeyContractAddr)
	assert.False(t, ok)
}

func TestSegmentsKeepAllAttributes(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for i := 0; i < 100; i++ {
		var e chain.Event
		f.Fuzz(&e)
		if i%3 == 0 && len(e.Attributes) > 1 {
			e.Attributes[len(e.Attributes)/2].Key = types.AttributeKeyContractAddr
		}
		var got []chain.Attribute
		for _, s := range e.Segments() {
			assert.Equal(t, e.Type, s.Type)
			assert.NotEmpty(t, s.Attributes)
			got = append(got, s.Attributes...)
		}
		if len(e.Attributes) == 0 {
			assert.Empty(t, got)
			continue
		}
		assert.Equal(t, e.Attributes, got)
	}
}

func TestTxResultErr(t *testing.T) {
	assert.NoError(t, chaintesting.TxResultFixture().Err())

	err := chaintesting.FailedTxResultFixture(5, "proposal not passed").Err()
	require.Error(t, err)
	assert.True(t, types.ErrTransaction.Is(err))
	assert.Contains(t, err.Error(), "proposal not passed")
}

func TestNewTxResult(t *testing.T) {
	assert.Nil(t, chain.NewTxResult(nil))

	src := &sdk.TxResponse{
		Height:  12,
		TxHash:  "ABCD",
		GasUsed: 100,
		Logs: sdk.ABCIMessageLogs{{
			MsgIndex: 0,
			Events: sdk.StringEvents{{
				Type:       "wasm",
				Attributes: []sdk.Attribute{{Key: "_contract_address", Value: "contract1"}, {Key: "proposal_id", Value: "4"}},
			}},
		}},
	}
	got := chain.NewTxResult(src)
	require.NotNil(t, got)
	assert.Equal(t, int64(12), got.Height)
	assert.Equal(t, "ABCD", got.TxHash)
	assert.Equal(t, int64(100), got.GasUsed)
	v, ok := got.Attribute("wasm", "proposal_id")
	assert.True(t, ok)
	assert.Equal(t, "4", v)
}

func TestParseTxResult(t *testing.T) {
	specs := map[string]struct {
		src     string
		expErr  bool
		expCode uint32
		expID   string
	}{
		"success": {
			src: `{"height":"10","txhash":"AA","code":0,"gas_used":"1000","logs":[{"msg_index":0,"events":[
{"type":"message","attributes":[{"key":"action","value":"/cosmwasm.wasm.v1.MsgExecuteContract"}]},
{"type":"wasm","attributes":[{"key":"_contract_address","value":"c1"},{"key":"proposal_id","value":"9"}]}]}]}`,
			expID: "9",
		},
		"failed tx": {
			src:     `{"height":"10","txhash":"AA","codespace":"wasm","code":5,"raw_log":"failed","logs":[]}`,
			expCode: 5,
		},
		"not json": {
			src:    "Error: key not found",
			expErr: true,
		},
		"no tx hash": {
			src:    `{"height":"1"}`,
			expErr: true,
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			got, gotErr := chain.ParseTxResult(spec.src)
			if spec.expErr {
				require.Error(t, gotErr)
				assert.True(t, types.ErrUnexpectedResult.Is(gotErr))
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, spec.expCode, got.Code)
			assert.Equal(t, int64(10), got.Height)
			v, _ := got.Attribute(types.EventTypeWasm, types.AttributeKeyProposalID)
			assert.Equal(t, spec.expID, v)
		})
	}
}
