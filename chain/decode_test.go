package chain_test

import (
	"testing"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/chain/chaintesting"
	"github.com/angelprotocol/harness/types"
)

func TestDecodeStoreCode(t *testing.T) {
	specs := map[string]struct {
		src    *chain.TxResult
		expID  uint64
		expErr *sdkerrors.Error
	}{
		"store_code event": {
			src:   chaintesting.TxResultFixture(chaintesting.Event(types.EventTypeStoreCode, "code_id", "12")),
			expID: 12,
		},
		"message event fallback": {
			src:   chaintesting.TxResultFixture(chaintesting.Event(types.EventTypeMessage, "module", "wasm", "code_id", "3")),
			expID: 3,
		},
		"not found": {
			src:    chaintesting.TxResultFixture(chaintesting.Event(types.EventTypeMessage, "module", "wasm")),
			expErr: types.ErrAttributeNotFound,
		},
		"not a number": {
			src:    chaintesting.TxResultFixture(chaintesting.Event(types.EventTypeStoreCode, "code_id", "x")),
			expErr: types.ErrUnexpectedResult,
		},
		"failed tx": {
			src:    chaintesting.FailedTxResultFixture(2, "out of gas"),
			expErr: types.ErrTransaction,
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			gotID, gotErr := chain.DecodeStoreCode(spec.src)
			if spec.expErr != nil {
				require.Error(t, gotErr)
				assert.True(t, spec.expErr.Is(gotErr), "got %#+v", gotErr)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, spec.expID, gotID)
		})
	}
}

func TestDecodeInstantiate(t *testing.T) {
	res := chaintesting.TxResultFixture(
		chaintesting.Event(types.EventTypeInstantiate, "_contract_address", "registrar", "code_id", "1"),
		chaintesting.WasmEvent("registrar", "action", "instantiate"),
	)
	got, err := chain.DecodeInstantiate(res)
	require.NoError(t, err)
	assert.Equal(t, "registrar", got)

	_, err = chain.DecodeInstantiate(chaintesting.TxResultFixture())
	assert.True(t, types.ErrAttributeNotFound.Is(err))
}

func TestInstantiatedContracts(t *testing.T) {
	res := chaintesting.TxResultFixture(chaintesting.Flatten(
		chaintesting.Event(types.EventTypeInstantiate, "_contract_address", "registrar", "code_id", "1"),
		chaintesting.Event(types.EventTypeInstantiate, "_contract_address", "accounts", "code_id", "2"),
	)...)
	assert.Equal(t, []string{"registrar", "accounts"}, chain.InstantiatedContracts(res))
}
