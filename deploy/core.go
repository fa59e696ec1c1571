package deploy

import (
	"context"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/app"
	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/config"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/types"
)

// coreArtifacts are uploaded by setup_core and replaced by migrate_core
var coreArtifacts = []string{
	WasmRegistrar,
	WasmAccounts,
	WasmIndexFund,
	WasmCW4Group,
	WasmCW3Multisig,
	WasmCW3ReviewTeam,
	WasmVault,
}

// SetupCore deploys the registrar, accounts, index fund, the ap team and review team multisigs
// and the vaults, and wires them in the registrar config. Ownership of the registrar and the index
// fund is handed over to the ap team multisig at the end; the deployer stays wasm admin.
func SetupCore(ctx context.Context, h *app.Harness) error {
	d, err := newDeployer(h, StepSetupCore)
	if err != nil {
		return err
	}
	cfg := h.Config.Core
	apTeam, err := h.Wallets(cfg.ApTeam)
	if err != nil {
		return err
	}
	reviewTeam, err := h.Wallets(cfg.ReviewTeam)
	if err != nil {
		return err
	}

	codes := make(map[string]uint64, len(coreArtifacts))
	for _, file := range coreArtifacts {
		if codes[file], err = d.upload(ctx, file); err != nil {
			return err
		}
	}

	registrarMsg := contract.RegistrarInstantiateMsg{
		Treasury:       cfg.Treasury,
		TaxRate:        config.Dec(cfg.TaxRate),
		AcceptedTokens: cfg.AcceptedTokens,
	}
	if registrarMsg.Treasury == "" {
		registrarMsg.Treasury = d.sender.Address
	}
	if s := cfg.SplitToLiquid; s != (config.SplitConfig{}) {
		registrarMsg.SplitToLiquid = &contract.SplitDetails{Min: config.Dec(s.Min), Max: config.Dec(s.Max), Default: config.Dec(s.Default)}
	}
	registrar, err := d.instantiate(ctx, ContractRegistrar, codes[WasmRegistrar], registrarMsg)
	if err != nil {
		return err
	}
	accounts, err := d.instantiate(ctx, ContractAccounts, codes[WasmAccounts], contract.AccountsInstantiateMsg{
		OwnerSC:           d.sender.Address,
		RegistrarContract: registrar,
	})
	if err != nil {
		return err
	}
	indexFund, err := d.instantiate(ctx, ContractIndexFund, codes[WasmIndexFund], indexFundMsg(registrar, cfg.IndexFund))
	if err != nil {
		return err
	}

	apMultisig, err := d.multisig(ctx, ContractApTeamGroup, ContractApTeamMultisig, codes[WasmCW4Group], codes[WasmCW3Multisig], apTeam, "")
	if err != nil {
		return err
	}
	var reviewMultisig string
	if len(reviewTeam) != 0 {
		reviewMultisig, err = d.multisig(ctx, ContractReviewTeamGroup, ContractReviewTeamMultisig, codes[WasmCW4Group], codes[WasmCW3ReviewTeam], reviewTeam, registrar)
		if err != nil {
			return err
		}
	}

	var defaultVault string
	for _, v := range cfg.Vaults {
		addr, err := d.vault(ctx, codes[WasmVault], registrar, v)
		if err != nil {
			return err
		}
		if defaultVault == "" {
			defaultVault = addr
		}
	}

	cw3Code, cw4Code := codes[WasmCW3Multisig], codes[WasmCW4Group]
	update := contract.RegistrarExecuteMsg{UpdateConfig: &contract.RegistrarConfigUpdate{
		AccountsContract:   accounts,
		IndexFundContract:  indexFund,
		CW3Code:            &cw3Code,
		CW4Code:            &cw4Code,
		DefaultVault:       defaultVault,
		ReviewTeamMultisig: reviewMultisig,
	}}
	if _, err := d.execute(ctx, registrar, update, nil); err != nil {
		return sdkerrors.Wrap(err, "registrar config")
	}

	for _, c := range []struct {
		name string
		addr string
		msg  interface{}
	}{
		{ContractRegistrar, registrar, contract.RegistrarExecuteMsg{UpdateOwner: &contract.UpdateOwnerMsg{NewOwner: apMultisig}}},
		{ContractIndexFund, indexFund, contract.IndexFundExecuteMsg{UpdateOwner: &contract.UpdateOwnerMsg{NewOwner: apMultisig}}},
	} {
		if _, err := d.execute(ctx, c.addr, c.msg, nil); err != nil {
			return sdkerrors.Wrapf(err, "hand over %s", c.name)
		}
		d.logger.Info("owner updated", "contract", c.name, "owner", apMultisig)
	}
	return nil
}

func indexFundMsg(registrar string, cfg config.FundConfig) contract.IndexFundInstantiateMsg {
	msg := contract.IndexFundInstantiateMsg{RegistrarContract: registrar}
	if cfg.FundRotation != 0 {
		msg.FundRotation = &cfg.FundRotation
	}
	if cfg.FundMemberLimit != 0 {
		msg.FundMemberLimit = &cfg.FundMemberLimit
	}
	if cfg.FundingGoal != "" {
		goal := config.Int(cfg.FundingGoal)
		msg.FundingGoal = &goal
	}
	return msg
}

// multisig deploys a cw4 group of the members with weight 1 and a cw3 multisig on top of it.
// The multisig becomes the admin of its group.
func (d *deployer) multisig(ctx context.Context, groupName, multisigName string, cw4Code, cw3Code uint64, members []chain.Wallet, registrar string) (string, error) {
	cfg := d.h.Config.Core
	group, err := d.instantiate(ctx, groupName, cw4Code, contract.CW4InstantiateMsg{
		Admin:   d.sender.Address,
		Members: WeightedMembers(members),
	})
	if err != nil {
		return "", err
	}
	multisig, err := d.instantiate(ctx, multisigName, cw3Code, contract.CW3InstantiateMsg{
		GroupAddr:         group,
		Threshold:         contract.PercentageThreshold(config.Dec(cfg.Threshold)),
		MaxVotingPeriod:   contract.HeightDuration(cfg.MaxVotingPeriodHeight),
		RegistrarContract: registrar,
	})
	if err != nil {
		return "", err
	}
	if _, err := d.execute(ctx, group, contract.CW4ExecuteMsg{UpdateAdmin: &contract.UpdateAdminMsg{Admin: multisig}}, nil); err != nil {
		return "", sdkerrors.Wrapf(err, "hand over %s", groupName)
	}
	d.logger.Info("group admin updated", "group", groupName, "admin", multisig)
	return multisig, nil
}

// vault instantiates the vault and registers it as approved in the registrar. Vaults without a
// money market are skipped.
func (d *deployer) vault(ctx context.Context, codeID uint64, registrar string, v config.VaultConfig) (string, error) {
	moneyMarket := v.MoneyMarket
	if moneyMarket == "" {
		addr, err := d.h.Book.Address(ContractMoneyMarket)
		switch {
		case types.ErrNotFound.Is(err):
			d.logger.Info("vault skipped, no money market", "symbol", v.Symbol)
			return "", nil
		case err != nil:
			return "", err
		}
		moneyMarket = addr
	}
	acctType := contract.AcctType(v.AcctType)
	addr, err := d.instantiate(ctx, VaultName(v.Symbol), codeID, contract.VaultInstantiateMsg{
		AcctType:                  acctType,
		MoneyMarket:               moneyMarket,
		Name:                      v.Name,
		Symbol:                    v.Symbol,
		Decimals:                  6,
		RegistrarContract:         registrar,
		Tax:                       config.Dec(v.TaxPerBlock),
		TreasuryWithdrawThreshold: config.Int(v.TreasuryWithdrawThreshold),
		HarvestToLiquid:           config.Dec(v.HarvestToLiquid),
	})
	if err != nil {
		return "", err
	}
	add := contract.RegistrarExecuteMsg{VaultAdd: &contract.VaultAddMsg{
		Network:    d.h.Config.ChainID,
		VaultAddr:  addr,
		InputDenom: d.h.Config.Denom,
		YieldToken: addr,
		AcctType:   acctType,
	}}
	if _, err := d.execute(ctx, registrar, add, nil); err != nil {
		return "", sdkerrors.Wrapf(err, "add vault %s", v.Symbol)
	}
	approve := contract.RegistrarExecuteMsg{VaultUpdateStatus: &contract.VaultUpdateStatusMsg{VaultAddr: addr, Approved: true}}
	if _, err := d.execute(ctx, registrar, approve, nil); err != nil {
		return "", sdkerrors.Wrapf(err, "approve vault %s", v.Symbol)
	}
	return addr, nil
}

// WeightedMembers returns the wallets as cw4 members of weight 1
func WeightedMembers(wallets []chain.Wallet) []contract.Member {
	r := make([]contract.Member, len(wallets))
	for i, w := range wallets {
		r[i] = contract.Member{Addr: w.Address, Weight: 1}
	}
	return r
}

// ApTeam returns the ap team multisig address with its members in voting order
func ApTeam(h *app.Harness) (string, []chain.Wallet, error) {
	multisig, err := h.Book.Address(ContractApTeamMultisig)
	if err != nil {
		return "", nil, sdkerrors.Wrap(err, "run setup_core first")
	}
	members, err := h.Wallets(h.Config.Core.ApTeam)
	if err != nil {
		return "", nil, err
	}
	return multisig, members, nil
}
