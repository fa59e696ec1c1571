package deploy

import (
	"context"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/app"
	"github.com/angelprotocol/harness/config"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/types"
)

var haloArtifacts = []string{
	WasmHaloToken,
	WasmHaloGov,
	WasmHaloCommunity,
	WasmHaloDistributor,
	WasmHaloVesting,
	WasmHaloAirdrop,
	WasmHaloCollector,
	WasmHaloStaking,
}

// SetupHalo deploys the HALO token and its gov, community, distributor, vesting, airdrop, collector
// and staking contracts. With a swap factory deployed, a HALO pair is created first; its liquidity
// token is staked and the collector swaps through the factory. Token, gov and collector are
// registered in the registrar by an ap team proposal.
func SetupHalo(ctx context.Context, h *app.Harness) error {
	d, err := newDeployer(h, StepSetupHalo)
	if err != nil {
		return err
	}
	cfg := h.Config.Halo
	if cfg == (config.HaloConfig{}) {
		return sdkerrors.Wrapf(types.ErrInvalidConfig, "no halo section for %s", h.Config.Network)
	}
	registrar, err := d.address(ContractRegistrar)
	if err != nil {
		return err
	}
	codes := make(map[string]uint64, len(haloArtifacts))
	for _, file := range haloArtifacts {
		if codes[file], err = d.upload(ctx, file); err != nil {
			return err
		}
	}

	token, err := d.instantiate(ctx, ContractHaloToken, codes[WasmHaloToken], contract.Cw20InstantiateMsg{
		Name:            cfg.TokenName,
		Symbol:          cfg.TokenSymbol,
		Decimals:        6,
		InitialBalances: []contract.Cw20Coin{{Address: d.sender.Address, Amount: config.Int(cfg.TokenSupply)}},
	})
	if err != nil {
		return err
	}
	gov, err := d.instantiate(ctx, ContractHaloGov, codes[WasmHaloGov], contract.GovInstantiateMsg{
		Quorum:            config.Dec(cfg.Quorum),
		Threshold:         config.Dec(cfg.Threshold),
		VotingPeriod:      cfg.VotingPeriod,
		TimelockPeriod:    cfg.TimelockPeriod,
		ProposalDeposit:   config.Int(cfg.ProposalDeposit),
		SnapshotPeriod:    cfg.SnapshotPeriod,
		UnbondingPeriod:   cfg.UnbondingPeriod,
		GovHodler:         d.sender.Address,
		RegistrarContract: registrar,
	})
	if err != nil {
		return err
	}
	if _, err := d.execute(ctx, gov, contract.GovExecuteMsg{RegisterContracts: &contract.GovRegisterContractsMsg{HaloToken: token}}, nil); err != nil {
		return sdkerrors.Wrap(err, "register halo token in gov")
	}

	spendLimit := config.Int(cfg.SpendLimit)
	community, err := d.instantiate(ctx, ContractHaloCommunity, codes[WasmHaloCommunity], contract.CommunityInstantiateMsg{
		GovContract: gov,
		HaloToken:   token,
		SpendLimit:  spendLimit,
	})
	if err != nil {
		return err
	}
	distributor, err := d.instantiate(ctx, ContractHaloDistributor, codes[WasmHaloDistributor], contract.DistributorInstantiateMsg{
		GovContract: gov,
		HaloToken:   token,
		Whitelist:   []string{community},
		SpendLimit:  spendLimit,
	})
	if err != nil {
		return err
	}
	if _, err := d.instantiate(ctx, ContractHaloVesting, codes[WasmHaloVesting], contract.VestingInstantiateMsg{
		Owner:       d.sender.Address,
		HaloToken:   token,
		GenesisTime: cfg.GenesisTime,
	}); err != nil {
		return err
	}
	airdrop, err := d.instantiate(ctx, ContractHaloAirdrop, codes[WasmHaloAirdrop], contract.AirdropInstantiateMsg{
		Owner:     d.sender.Address,
		HaloToken: token,
	})
	if err != nil {
		return err
	}
	if cfg.MerkleRoot != "" {
		msg := contract.AirdropExecuteMsg{RegisterMerkleRoot: &contract.RegisterMerkleRootMsg{MerkleRoot: cfg.MerkleRoot}}
		if _, err := d.execute(ctx, airdrop, msg, nil); err != nil {
			return sdkerrors.Wrap(err, "register merkle root")
		}
	}

	stakingToken := token
	var collector string
	factory, err := h.Book.Address(ContractDexFactory)
	switch {
	case types.ErrNotFound.Is(err):
		d.logger.Info("halo pair and collector skipped, no swap factory")
	case err != nil:
		return err
	default:
		pair, err := d.createPair(ctx, factory, token, ContractHaloPair, ContractHaloLP)
		if err != nil {
			return err
		}
		tokenAmount, nativeAmount := dexLiquidity(h.Config.Dex)
		if err := d.provideLiquidity(ctx, pair.ContractAddr, token, tokenAmount, nativeAmount); err != nil {
			return err
		}
		stakingToken = pair.LiquidityToken
		collector, err = d.instantiate(ctx, ContractHaloCollector, codes[WasmHaloCollector], contract.CollectorInstantiateMsg{
			GovContract:         gov,
			TerraswapFactory:    factory,
			HaloToken:           token,
			DistributorContract: distributor,
			RewardFactor:        config.Dec(cfg.RewardFactor),
		})
		if err != nil {
			return err
		}
	}
	if _, err := d.instantiate(ctx, ContractHaloStaking, codes[WasmHaloStaking], contract.StakingInstantiateMsg{
		HaloToken:            token,
		StakingToken:         stakingToken,
		DistributionSchedule: []contract.DistributionSchedule{},
	}); err != nil {
		return err
	}

	return d.updateRegistrar(ctx, registrar, "Register HALO contracts", contract.RegistrarConfigUpdate{
		HaloToken:     token,
		GovContract:   gov,
		CollectorAddr: collector,
	})
}
