package config

import (
	"encoding/hex"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/cosmos/go-bip39"
	host "github.com/cosmos/ibc-go/v2/modules/core/24-host"

	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/types"
)

// ValidateBasic checks the config for consistency. It does not require any mnemonic to be set.
func (c Config) ValidateBasic() error {
	if err := c.Network.ValidateBasic(); err != nil {
		return err
	}
	if strings.TrimSpace(c.ChainID) == "" {
		return sdkerrors.Wrap(types.ErrInvalidConfig, "chain id empty")
	}
	if c.RPC == "" {
		return sdkerrors.Wrap(types.ErrInvalidConfig, "rpc empty")
	}
	if err := sdk.ValidateDenom(c.Denom); err != nil {
		return sdkerrors.Wrapf(types.ErrInvalidConfig, "denom: %s", err)
	}
	if c.GasPrices != "" {
		if _, err := sdk.ParseDecCoins(c.GasPrices); err != nil {
			return sdkerrors.Wrapf(types.ErrInvalidConfig, "gas prices: %s", err)
		}
	}
	if c.GasAdjustment < 0 {
		return sdkerrors.Wrapf(types.ErrInvalidConfig, "gas adjustment %v", c.GasAdjustment)
	}
	for file, sum := range c.Checksums {
		if bz, err := hex.DecodeString(sum); err != nil || len(bz) != 32 {
			return sdkerrors.Wrapf(types.ErrInvalidConfig, "checksum of %s: not a hex sha256", file)
		}
	}
	for role, m := range c.Mnemonics {
		if !bip39.IsMnemonicValid(m) {
			return sdkerrors.Wrapf(types.ErrInvalidConfig, "mnemonic of %s", role)
		}
	}
	for name, addr := range c.Addresses {
		if err := contract.ValidateAddress(addr); err != nil {
			return sdkerrors.Wrapf(types.ErrInvalidConfig, "address of %s: %s", name, err)
		}
	}
	for name, paths := range c.Overrides {
		for path := range paths {
			if path == "" {
				return sdkerrors.Wrapf(types.ErrInvalidConfig, "override of %s: empty path", name)
			}
		}
	}
	if err := c.Core.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(err, "core")
	}
	for i, e := range c.Endowments {
		if err := e.ValidateBasic(); err != nil {
			return sdkerrors.Wrapf(err, "endowment %d", i)
		}
	}
	if err := c.Halo.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(err, "halo")
	}
	if err := c.Lbp.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(err, "lbp")
	}
	if err := c.Dex.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(err, "dex")
	}
	if err := c.Ica.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(err, "ica")
	}
	return sdkerrors.Wrap(c.Scenario.ValidateBasic(), "scenario")
}

func (c CoreConfig) ValidateBasic() error {
	if err := percentage("tax rate", c.TaxRate); err != nil {
		return err
	}
	if err := optionalAddress("treasury", c.Treasury); err != nil {
		return err
	}
	for _, d := range c.AcceptedTokens {
		if err := sdk.ValidateDenom(d); err != nil {
			return sdkerrors.Wrapf(types.ErrInvalidConfig, "accepted token %q", d)
		}
	}
	if c.SplitToLiquid != (SplitConfig{}) {
		for name, v := range map[string]string{"min": c.SplitToLiquid.Min, "max": c.SplitToLiquid.Max, "default": c.SplitToLiquid.Default} {
			if err := percentage("split to liquid "+name, v); err != nil {
				return err
			}
		}
	}
	if len(c.ApTeam) == 0 {
		return sdkerrors.Wrap(types.ErrInvalidConfig, "ap team members empty")
	}
	if err := uniqueRoles(c.ApTeam); err != nil {
		return sdkerrors.Wrap(err, "ap team")
	}
	if err := uniqueRoles(c.ReviewTeam); err != nil {
		return sdkerrors.Wrap(err, "review team")
	}
	if err := threshold(c.Threshold); err != nil {
		return err
	}
	if c.MaxVotingPeriodHeight == 0 {
		return sdkerrors.Wrap(types.ErrInvalidConfig, "max voting period empty")
	}
	for i, v := range c.Vaults {
		if err := v.ValidateBasic(); err != nil {
			return sdkerrors.Wrapf(err, "vault %d", i)
		}
	}
	return integer("index fund funding goal", c.IndexFund.FundingGoal, true)
}

func (v VaultConfig) ValidateBasic() error {
	if v.Name == "" || v.Symbol == "" {
		return sdkerrors.Wrap(types.ErrInvalidConfig, "name or symbol empty")
	}
	if err := contract.AcctType(v.AcctType).ValidateBasic(); err != nil {
		return sdkerrors.Wrap(types.ErrInvalidConfig, err.Error())
	}
	if err := optionalAddress("money market", v.MoneyMarket); err != nil {
		return err
	}
	if err := percentage("tax per block", v.TaxPerBlock); err != nil {
		return err
	}
	if err := percentage("harvest to liquid", v.HarvestToLiquid); err != nil {
		return err
	}
	return integer("treasury withdraw threshold", v.TreasuryWithdrawThreshold, false)
}

func (e EndowmentConfig) ValidateBasic() error {
	if e.Name == "" {
		return sdkerrors.Wrap(types.ErrInvalidConfig, "name empty")
	}
	if len(e.Members) == 0 {
		return sdkerrors.Wrap(types.ErrInvalidConfig, "members empty")
	}
	if err := uniqueRoles(e.Members); err != nil {
		return err
	}
	if err := threshold(e.Threshold); err != nil {
		return err
	}
	if e.MaxVotingPeriod == 0 {
		return sdkerrors.Wrap(types.ErrInvalidConfig, "max voting period empty")
	}
	return nil
}

func (h HaloConfig) ValidateBasic() error {
	if h == (HaloConfig{}) {
		return nil
	}
	if len(h.TokenName) < 3 || len(h.TokenSymbol) < 3 {
		return sdkerrors.Wrap(types.ErrInvalidConfig, "token name and symbol need 3 chars at least")
	}
	for name, v := range map[string]string{"quorum": h.Quorum, "threshold": h.Threshold, "reward factor": h.RewardFactor} {
		if err := percentage(name, v); err != nil {
			return err
		}
	}
	for name, v := range map[string]string{"token supply": h.TokenSupply, "proposal deposit": h.ProposalDeposit, "spend limit": h.SpendLimit} {
		if err := integer(name, v, false); err != nil {
			return err
		}
	}
	if h.VotingPeriod == 0 || h.GenesisTime == 0 {
		return sdkerrors.Wrap(types.ErrInvalidConfig, "voting period and genesis time required")
	}
	if h.MerkleRoot != "" {
		if bz, err := hex.DecodeString(h.MerkleRoot); err != nil || len(bz) != 32 {
			return sdkerrors.Wrap(types.ErrInvalidConfig, "merkle root: not a hex sha256")
		}
	}
	return nil
}

func (l LbpConfig) ValidateBasic() error {
	if l == (LbpConfig{}) {
		return nil
	}
	if err := percentage("commission rate", l.CommissionRate); err != nil {
		return err
	}
	if l.Duration <= 0 || l.StartDelay < 0 {
		return sdkerrors.Wrapf(types.ErrInvalidConfig, "start delay %s duration %s", l.StartDelay, l.Duration)
	}
	for name, v := range map[string]string{
		"token start weight":  l.TokenStart,
		"token end weight":    l.TokenEnd,
		"native start weight": l.NativeStart,
		"native end weight":   l.NativeEnd,
		"token amount":        l.TokenAmount,
		"native amount":       l.NativeAmount,
	} {
		if err := integer(name, v, false); err != nil {
			return err
		}
	}
	return nil
}

func (d DexConfig) ValidateBasic() error {
	switch d.Kind {
	case TerraSwap, LoopSwap:
	default:
		return sdkerrors.Wrapf(types.ErrInvalidConfig, "kind %q", string(d.Kind))
	}
	if err := integer("token amount", d.TokenAmount, true); err != nil {
		return err
	}
	return integer("native amount", d.NativeAmount, true)
}

func (i IcaConfig) ValidateBasic() error {
	if i.ConnectionID != "" {
		if err := host.ConnectionIdentifierValidator(i.ConnectionID); err != nil {
			return sdkerrors.Wrapf(types.ErrInvalidConfig, "connection id: %s", err)
		}
	}
	if i.PortID != "" {
		if err := host.PortIdentifierValidator(i.PortID); err != nil {
			return sdkerrors.Wrapf(types.ErrInvalidConfig, "port id: %s", err)
		}
	}
	if i.ChannelID != "" {
		if err := host.ChannelIdentifierValidator(i.ChannelID); err != nil {
			return sdkerrors.Wrapf(types.ErrInvalidConfig, "channel id: %s", err)
		}
	}
	return nil
}

func (s ScenarioConfig) ValidateBasic() error {
	for name, v := range map[string]string{"deposit": s.Deposit, "withdraw": s.Withdraw} {
		if v == "" {
			continue
		}
		if _, err := sdk.ParseCoinNormalized(v); err != nil {
			return sdkerrors.Wrapf(types.ErrInvalidConfig, "%s: %s", name, err)
		}
	}
	if s.LockedPercentage != "" {
		return percentage("locked percentage", s.LockedPercentage)
	}
	return nil
}

func percentage(name, v string) error {
	d, err := sdk.NewDecFromStr(v)
	if err != nil {
		return sdkerrors.Wrapf(types.ErrInvalidConfig, "%s %q", name, v)
	}
	if d.IsNegative() || d.GT(sdk.OneDec()) {
		return sdkerrors.Wrapf(types.ErrInvalidConfig, "%s %s not within 0 and 1", name, d)
	}
	return nil
}

func threshold(v string) error {
	if err := percentage("threshold", v); err != nil {
		return err
	}
	if sdk.MustNewDecFromStr(v).IsZero() {
		return sdkerrors.Wrap(types.ErrInvalidConfig, "threshold must not be zero")
	}
	return nil
}

func integer(name, v string, optional bool) error {
	if v == "" && optional {
		return nil
	}
	i, ok := sdk.NewIntFromString(v)
	if !ok || i.IsNegative() {
		return sdkerrors.Wrapf(types.ErrInvalidConfig, "%s %q", name, v)
	}
	return nil
}

func optionalAddress(name, addr string) error {
	if addr == "" {
		return nil
	}
	if err := contract.ValidateAddress(addr); err != nil {
		return sdkerrors.Wrapf(types.ErrInvalidConfig, "%s: %s", name, err)
	}
	return nil
}

func uniqueRoles(roles []Role) error {
	seen := make(map[Role]bool, len(roles))
	for _, r := range roles {
		if r == "" {
			return sdkerrors.Wrap(types.ErrInvalidConfig, "empty role")
		}
		if seen[r] {
			return sdkerrors.Wrapf(types.ErrInvalidConfig, "duplicate role %s", r)
		}
		seen[r] = true
	}
	return nil
}

// Dec parses a validated decimal
func Dec(v string) sdk.Dec {
	return sdk.MustNewDecFromStr(v)
}

// Int parses a validated integer. Empty returns zero.
func Int(v string) sdk.Int {
	if v == "" {
		return sdk.ZeroInt()
	}
	i, ok := sdk.NewIntFromString(v)
	if !ok {
		panic("invalid integer " + v)
	}
	return i
}
