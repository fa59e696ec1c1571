package chain

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/angelprotocol/harness/types"
)

var _ Querier = &LCDQuerier{}

// LCDQuerier runs queries against the REST endpoint of a node
type LCDQuerier struct {
	client *resty.Client
}

func NewLCDQuerier(baseURL string, timeout time.Duration) *LCDQuerier {
	return &LCDQuerier{
		client: resty.New().
			SetBaseURL(strings.TrimSuffix(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

func (q LCDQuerier) QuerySmart(ctx context.Context, contractAddr string, query []byte) ([]byte, error) {
	path := fmt.Sprintf("/cosmwasm/wasm/v1/contract/%s/smart/%s",
		url.PathEscape(contractAddr), base64.URLEncoding.EncodeToString(query))
	body, err := q.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	data := gjson.GetBytes(body, "data")
	if !data.Exists() {
		return nil, sdkerrors.Wrapf(types.ErrUnexpectedResult, "no data in %s", string(body))
	}
	return []byte(data.Raw), nil
}

func (q LCDQuerier) Balance(ctx context.Context, addr, denom string) (sdk.Coin, error) {
	path := fmt.Sprintf("/cosmos/bank/v1beta1/balances/%s/by_denom", url.PathEscape(addr))
	body, err := q.get(ctx, path, map[string]string{"denom": denom})
	if err != nil {
		return sdk.Coin{}, err
	}
	amount, ok := sdk.NewIntFromString(gjson.GetBytes(body, "balance.amount").String())
	if !ok {
		return sdk.NewInt64Coin(denom, 0), nil
	}
	return sdk.NewCoin(denom, amount), nil
}

func (q LCDQuerier) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	rsp, err := q.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return nil, sdkerrors.Wrapf(err, "get %s", path)
	}
	body := rsp.Body()
	if rsp.IsError() {
		msg := gjson.GetBytes(body, "message").String()
		if msg == "" {
			msg = string(body)
		}
		return nil, sdkerrors.Wrapf(types.ErrUnexpectedResult, "status %d: %s", rsp.StatusCode(), msg)
	}
	return body, nil
}
