package deploy

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/app"
	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/config"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/cw3"
	"github.com/angelprotocol/harness/types"
)

// SetupDex deploys the swap factory and router of the network: terraswap on localterra, loopswap
// elsewhere. The router is registered in the registrar when the core is deployed.
func SetupDex(ctx context.Context, h *app.Harness) error {
	d, err := newDeployer(h, StepSetupDex)
	if err != nil {
		return err
	}
	factoryWasm, pairWasm, routerWasm, tokenWasm := dexArtifacts(h.Config.Dex.Kind)
	codes := make(map[string]uint64, 4)
	for _, file := range []string{tokenWasm, pairWasm, factoryWasm, routerWasm} {
		if codes[file], err = d.upload(ctx, file); err != nil {
			return err
		}
	}
	factory, err := d.instantiate(ctx, ContractDexFactory, codes[factoryWasm], contract.SwapFactoryInstantiateMsg{
		PairCodeID:  codes[pairWasm],
		TokenCodeID: codes[tokenWasm],
	})
	if err != nil {
		return err
	}
	router, err := d.instantiate(ctx, ContractDexRouter, codes[routerWasm], contract.SwapRouterInstantiateMsg{TerraswapFactory: factory})
	if err != nil {
		return err
	}

	registrar, err := h.Book.Address(ContractRegistrar)
	switch {
	case types.ErrNotFound.Is(err):
		d.logger.Info("swap router not registered, no registrar")
		return nil
	case err != nil:
		return err
	}
	return d.updateRegistrar(ctx, registrar, "Register swap router", contract.RegistrarConfigUpdate{SwapRouter: router})
}

// updateRegistrar changes the registrar config by an ap team proposal
func (d *deployer) updateRegistrar(ctx context.Context, registrar, title string, update contract.RegistrarConfigUpdate) error {
	apMultisig, apTeam, err := ApTeam(d.h)
	if err != nil {
		return err
	}
	msg := cw3.SubMsg{Contract: registrar, Msg: contract.RegistrarExecuteMsg{UpdateConfig: &update}}
	p, err := d.h.CW3.Pass(ctx, apTeam, apMultisig, title, "", msg)
	if err != nil {
		return sdkerrors.Wrap(err, title)
	}
	d.logger.Info("registrar updated", "title", title, "proposal_id", p.ID)
	return nil
}

// createPair creates the token / native denom pair on the swap factory and records its addresses
func (d *deployer) createPair(ctx context.Context, factory, token, pairName, lpName string) (contract.PairInfo, error) {
	msg := contract.SwapFactoryExecuteMsg{CreatePair: &contract.CreatePairMsg{AssetInfos: [2]contract.AssetInfo{
		contract.TokenAsset(token),
		contract.NativeAsset(d.h.Config.Denom),
	}}}
	res, err := d.execute(ctx, factory, msg, nil)
	if err != nil {
		return contract.PairInfo{}, sdkerrors.Wrap(err, "create pair")
	}
	return d.recordPair(res, pairName, lpName)
}

func (d *deployer) recordPair(res *chain.TxResult, pairName, lpName string) (contract.PairInfo, error) {
	pair, err := contract.DecodeCreatePair(res)
	if err != nil {
		return contract.PairInfo{}, err
	}
	if err := d.h.Book.SetAddress(pairName, pair.ContractAddr); err != nil {
		return contract.PairInfo{}, err
	}
	if err := d.h.Book.SetAddress(lpName, pair.LiquidityToken); err != nil {
		return contract.PairInfo{}, err
	}
	d.logger.Info("pair created", "pair", pair.ContractAddr, "liquidity_token", pair.LiquidityToken, "tx", res.TxHash)
	return pair, nil
}

// provideLiquidity approves the pair to spend the token amount and deposits both sides. Empty
// amounts skip the deposit.
func (d *deployer) provideLiquidity(ctx context.Context, pair, token string, tokenAmount, nativeAmount sdk.Int) error {
	if !tokenAmount.IsPositive() || !nativeAmount.IsPositive() {
		d.logger.Info("liquidity skipped", "pair", pair)
		return nil
	}
	allowance := contract.Cw20ExecuteMsg{IncreaseAllowance: &contract.Cw20AllowanceMsg{Spender: pair, Amount: tokenAmount}}
	if _, err := d.execute(ctx, token, allowance, nil); err != nil {
		return sdkerrors.Wrap(err, "increase allowance")
	}
	native := sdk.NewCoin(d.h.Config.Denom, nativeAmount)
	provide := contract.SwapPairExecuteMsg{ProvideLiquidity: &contract.ProvideLiquidityMsg{Assets: [2]contract.Asset{
		{Info: contract.TokenAsset(token), Amount: tokenAmount},
		{Info: contract.NativeAsset(native.Denom), Amount: native.Amount},
	}}}
	if _, err := d.execute(ctx, pair, provide, sdk.NewCoins(native)); err != nil {
		return sdkerrors.Wrap(err, "provide liquidity")
	}
	d.logger.Info("liquidity provided", "pair", pair, "token", tokenAmount.String(), "native", native.String())
	return nil
}

// dexLiquidity returns the configured amounts of the initial HALO pool
func dexLiquidity(cfg config.DexConfig) (sdk.Int, sdk.Int) {
	return config.Int(cfg.TokenAmount), config.Int(cfg.NativeAmount)
}
