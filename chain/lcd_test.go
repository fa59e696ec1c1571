package chain_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/types"
)

func TestLCDQuerier(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/cosmwasm/wasm/v1/contract/{addr}/smart/{query}", func(w http.ResponseWriter, req *http.Request) {
		vars := mux.Vars(req)
		q, err := base64.URLEncoding.DecodeString(vars["query"])
		require.NoError(t, err)
		if vars["addr"] != "terra1registrar" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":5,"message":"contract: not found"}`))
			return
		}
		assert.JSONEq(t, `{"config":{}}`, string(q))
		_, _ = w.Write([]byte(`{"data":{"owner":"terra1owner"}}`))
	})
	r.HandleFunc("/cosmos/bank/v1beta1/balances/{addr}/by_denom", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("denom") != "uluna" {
			_, _ = w.Write([]byte(`{"balance":{"denom":"uusd","amount":""}}`))
			return
		}
		_, _ = w.Write([]byte(`{"balance":{"denom":"uluna","amount":"1234"}}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	q := chain.NewLCDQuerier(srv.URL+"/", time.Second)
	ctx := context.Background()

	got, err := q.QuerySmart(ctx, "terra1registrar", []byte(`{"config":{}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"terra1owner"}`, string(got))

	_, err = q.QuerySmart(ctx, "terra1other", []byte(`{"config":{}}`))
	require.Error(t, err)
	assert.True(t, types.ErrUnexpectedResult.Is(err))
	assert.Contains(t, err.Error(), "contract: not found")

	coin, err := q.Balance(ctx, "terra1owner", "uluna")
	require.NoError(t, err)
	assert.Equal(t, "1234uluna", coin.String())

	coin, err = q.Balance(ctx, "terra1owner", "uusd")
	require.NoError(t, err)
	assert.True(t, coin.IsZero())
}

func TestLCDQuerierErrors(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/cosmwasm/wasm/v1/contract/{addr}/smart/{query}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("node down"))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()
	q := chain.NewLCDQuerier(srv.URL, time.Second)

	// when
	_, err := q.QuerySmart(context.Background(), "terra1registrar", []byte(`{"config":{}}`))
	// then
	require.Error(t, err)
	assert.True(t, types.ErrUnexpectedResult.Is(err))
	assert.Contains(t, err.Error(), "status 500: node down")

	// when
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = q.Balance(ctx, "terra1owner", "uluna")
	// then
	require.Error(t, err)
	assert.False(t, types.ErrUnexpectedResult.Is(err))
}
