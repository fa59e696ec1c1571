package chain_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/chain/chaintesting"
	"github.com/angelprotocol/harness/types"
)

type validatingMsg struct {
	Value string `json:"value"`
}

func (m validatingMsg) ValidateBasic() error {
	if m.Value == "" {
		return errors.New("empty value")
	}
	return nil
}

func TestMarshalMsg(t *testing.T) {
	specs := map[string]struct {
		src    interface{}
		exp    string
		expErr bool
	}{
		"raw bytes": {
			src: []byte(`{"vote":{}}`),
			exp: `{"vote":{}}`,
		},
		"raw message": {
			src: json.RawMessage(`{"vote":{}}`),
			exp: `{"vote":{}}`,
		},
		"string": {
			src: `{"vote":{}}`,
			exp: `{"vote":{}}`,
		},
		"valid struct": {
			src: validatingMsg{Value: "x"},
			exp: `{"value":"x"}`,
		},
		"invalid struct": {
			src:    validatingMsg{},
			expErr: true,
		},
		"nil": {
			expErr: true,
		},
		"not serializable": {
			src:    map[string]interface{}{"x": func() {}},
			expErr: true,
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			got, gotErr := chain.MarshalMsg(spec.src)
			if spec.expErr {
				require.Error(t, gotErr)
				assert.True(t, types.ErrInvalidMsg.Is(gotErr))
				return
			}
			require.NoError(t, gotErr)
			assert.JSONEq(t, spec.exp, string(got))
		})
	}
}

func TestSendTransaction(t *testing.T) {
	const (
		myContract = "contract"
		mySender   = "sender"
	)
	myFunds := sdk.NewCoins(sdk.NewInt64Coin("uluna", 100))
	specs := map[string]struct {
		execFn    func(ctx context.Context, sender, contractAddr string, msg []byte, funds sdk.Coins) (*chain.TxResult, error)
		expErr    bool
		expResult bool
	}{
		"success": {
			execFn: func(ctx context.Context, sender, contractAddr string, msg []byte, funds sdk.Coins) (*chain.TxResult, error) {
				return chaintesting.TxResultFixture(chaintesting.WasmEvent(contractAddr, "action", "vote")), nil
			},
			expResult: true,
		},
		"chain failure": {
			execFn: func(ctx context.Context, sender, contractAddr string, msg []byte, funds sdk.Coins) (*chain.TxResult, error) {
				r := chaintesting.FailedTxResultFixture(5, "proposal not passed")
				return r, r.Err()
			},
			expErr:    true,
			expResult: true,
		},
		"failed code without error": {
			execFn: func(ctx context.Context, sender, contractAddr string, msg []byte, funds sdk.Coins) (*chain.TxResult, error) {
				return chaintesting.FailedTxResultFixture(5, "proposal not passed"), nil
			},
			expErr:    true,
			expResult: true,
		},
		"transport failure": {
			execFn: func(ctx context.Context, sender, contractAddr string, msg []byte, funds sdk.Coins) (*chain.TxResult, error) {
				return nil, errors.New("connection refused")
			},
			expErr: true,
		},
		"empty result": {
			execFn: func(ctx context.Context, sender, contractAddr string, msg []byte, funds sdk.Coins) (*chain.TxResult, error) {
				return nil, nil
			},
			expErr: true,
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			var calls int
			mock := chaintesting.ClientMock{ExecuteFn: func(ctx context.Context, sender, contractAddr string, msg []byte, funds sdk.Coins) (*chain.TxResult, error) {
				calls++
				assert.Equal(t, mySender, sender)
				assert.Equal(t, myContract, contractAddr)
				assert.JSONEq(t, `{"vote":{"proposal_id":1}}`, string(msg))
				assert.Equal(t, myFunds, funds)
				return spec.execFn(ctx, sender, contractAddr, msg, funds)
			}}
			// when
			gotRes, gotErr := chain.SendTransaction(context.Background(), mock, mySender, myContract, `{"vote":{"proposal_id":1}}`, myFunds)
			// then
			assert.Equal(t, 1, calls, "must not retry")
			assert.Equal(t, spec.expResult, gotRes != nil)
			if spec.expErr {
				require.Error(t, gotErr)
				assert.True(t, types.ErrTransaction.Is(gotErr), "got %#+v", gotErr)
				return
			}
			require.NoError(t, gotErr)
		})
	}
}

func TestSendTransactionInvalidMsg(t *testing.T) {
	mock := chaintesting.ClientMock{}
	_, err := chain.SendTransaction(context.Background(), mock, "sender", "contract", validatingMsg{}, nil)
	require.Error(t, err)
	assert.True(t, types.ErrInvalidMsg.Is(err))
}

func TestQuerySmart(t *testing.T) {
	mock := chaintesting.ClientMock{QuerySmartFn: func(ctx context.Context, contractAddr string, query []byte) ([]byte, error) {
		assert.Equal(t, "contract", contractAddr)
		assert.JSONEq(t, `{"proposal":{"proposal_id":2}}`, string(query))
		return []byte(`{"id":2,"status":"passed"}`), nil
	}}
	var got struct {
		ID     uint64 `json:"id"`
		Status string `json:"status"`
	}
	err := chain.QuerySmart(context.Background(), mock, "contract", `{"proposal":{"proposal_id":2}}`, &got)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.ID)
	assert.Equal(t, "passed", got.Status)

	mock.QuerySmartFn = func(ctx context.Context, contractAddr string, query []byte) ([]byte, error) {
		return []byte(`not json`), nil
	}
	err = chain.QuerySmart(context.Background(), mock, "contract", `{}`, &got)
	assert.True(t, types.ErrUnexpectedResult.Is(err))
}

func TestWallet(t *testing.T) {
	var gotSender string
	mock := chaintesting.ClientMock{ExecuteFn: func(ctx context.Context, sender, contractAddr string, msg []byte, funds sdk.Coins) (*chain.TxResult, error) {
		gotSender = sender
		return chaintesting.TxResultFixture(), nil
	}}
	w := chain.NewWallet("apteam1", "terra1xyz", mock)
	_, err := w.Execute(context.Background(), "contract", `{}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "terra1xyz", gotSender)
	assert.Equal(t, "apteam1(terra1xyz)", w.String())
	assert.Equal(t, "terra1xyz", chain.NewWallet("", "terra1xyz", mock).String())
}
