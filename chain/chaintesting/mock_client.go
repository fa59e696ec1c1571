package chaintesting

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/angelprotocol/harness/chain"
)

var _ chain.Client = &ClientMock{}

type ClientMock struct {
	QuerySmartFn  func(ctx context.Context, contractAddr string, query []byte) ([]byte, error)
	BalanceFn     func(ctx context.Context, addr, denom string) (sdk.Coin, error)
	ExecuteFn     func(ctx context.Context, sender, contractAddr string, msg []byte, funds sdk.Coins) (*chain.TxResult, error)
	StoreCodeFn   func(ctx context.Context, sender string, wasmCode []byte) (*chain.TxResult, error)
	InstantiateFn func(ctx context.Context, sender string, req chain.InstantiateRequest) (*chain.TxResult, error)
	MigrateFn     func(ctx context.Context, sender, contractAddr string, codeID uint64, msg []byte) (*chain.TxResult, error)
	UpdateAdminFn func(ctx context.Context, sender, contractAddr, newAdmin string) (*chain.TxResult, error)
}

func (m ClientMock) QuerySmart(ctx context.Context, contractAddr string, query []byte) ([]byte, error) {
	if m.QuerySmartFn == nil {
		panic("not expected to be called")
	}
	return m.QuerySmartFn(ctx, contractAddr, query)
}

func (m ClientMock) Balance(ctx context.Context, addr, denom string) (sdk.Coin, error) {
	if m.BalanceFn == nil {
		panic("not expected to be called")
	}
	return m.BalanceFn(ctx, addr, denom)
}

func (m ClientMock) Execute(ctx context.Context, sender, contractAddr string, msg []byte, funds sdk.Coins) (*chain.TxResult, error) {
	if m.ExecuteFn == nil {
		panic("not expected to be called")
	}
	return m.ExecuteFn(ctx, sender, contractAddr, msg, funds)
}

func (m ClientMock) StoreCode(ctx context.Context, sender string, wasmCode []byte) (*chain.TxResult, error) {
	if m.StoreCodeFn == nil {
		panic("not expected to be called")
	}
	return m.StoreCodeFn(ctx, sender, wasmCode)
}

func (m ClientMock) Instantiate(ctx context.Context, sender string, req chain.InstantiateRequest) (*chain.TxResult, error) {
	if m.InstantiateFn == nil {
		panic("not expected to be called")
	}
	return m.InstantiateFn(ctx, sender, req)
}

func (m ClientMock) Migrate(ctx context.Context, sender, contractAddr string, codeID uint64, msg []byte) (*chain.TxResult, error) {
	if m.MigrateFn == nil {
		panic("not expected to be called")
	}
	return m.MigrateFn(ctx, sender, contractAddr, codeID, msg)
}

func (m ClientMock) UpdateAdmin(ctx context.Context, sender, contractAddr, newAdmin string) (*chain.TxResult, error) {
	if m.UpdateAdminFn == nil {
		panic("not expected to be called")
	}
	return m.UpdateAdminFn(ctx, sender, contractAddr, newAdmin)
}
