package deploy

import (
	"context"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/app"
	"github.com/angelprotocol/harness/config"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/types"
)

// SetupLbp deploys the liquidity bootstrapping factory and router and opens the HALO sale. The sale
// starts after the configured delay and the pair is funded with both sides.
func SetupLbp(ctx context.Context, h *app.Harness) error {
	d, err := newDeployer(h, StepSetupLbp)
	if err != nil {
		return err
	}
	cfg := h.Config.Lbp
	if cfg == (config.LbpConfig{}) {
		return sdkerrors.Wrapf(types.ErrInvalidConfig, "no lbp section for %s", h.Config.Network)
	}
	token, err := d.address(ContractHaloToken)
	if err != nil {
		return err
	}
	collector, err := h.Book.Address(ContractHaloCollector)
	switch {
	case types.ErrNotFound.Is(err):
		collector = d.sender.Address
	case err != nil:
		return err
	}

	codes := make(map[string]uint64, 4)
	for _, file := range []string{WasmLbpToken, WasmLbpPair, WasmLbpFactory, WasmLbpRouter} {
		if codes[file], err = d.upload(ctx, file); err != nil {
			return err
		}
	}
	factory, err := d.instantiate(ctx, ContractLbpFactory, codes[WasmLbpFactory], contract.LbpFactoryInstantiateMsg{
		Owner:          d.sender.Address,
		PairCodeID:     codes[WasmLbpPair],
		TokenCodeID:    codes[WasmLbpToken],
		CommissionRate: config.Dec(cfg.CommissionRate),
		CollectorAddr:  collector,
	})
	if err != nil {
		return err
	}

	start := uint64(h.Now().Add(cfg.StartDelay).Unix())
	create := contract.LbpFactoryExecuteMsg{CreatePair: &contract.LbpCreatePairMsg{
		AssetInfos: [2]contract.WeightedAssetInfo{
			{Info: contract.TokenAsset(token), StartWeight: config.Int(cfg.TokenStart), EndWeight: config.Int(cfg.TokenEnd)},
			{Info: contract.NativeAsset(h.Config.Denom), StartWeight: config.Int(cfg.NativeStart), EndWeight: config.Int(cfg.NativeEnd)},
		},
		StartTime:   start,
		EndTime:     start + uint64(cfg.Duration.Seconds()),
		Description: cfg.Description,
	}}
	res, err := d.execute(ctx, factory, create, nil)
	if err != nil {
		return sdkerrors.Wrap(err, "create lbp pair")
	}
	pair, err := d.recordPair(res, ContractLbpPair, ContractLbpToken)
	if err != nil {
		return err
	}
	if _, err := d.instantiate(ctx, ContractLbpRouter, codes[WasmLbpRouter], contract.LbpRouterInstantiateMsg{LbpFactory: factory}); err != nil {
		return err
	}
	return d.provideLiquidity(ctx, pair.ContractAddr, token, config.Int(cfg.TokenAmount), config.Int(cfg.NativeAmount))
}
