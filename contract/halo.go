package contract

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/types"
)

// Cw20InstantiateMsg instantiates the HALO token and the lp tokens
type Cw20InstantiateMsg struct {
	Name            string          `json:"name"`
	Symbol          string          `json:"symbol"`
	Decimals        uint8           `json:"decimals"`
	InitialBalances []Cw20Coin      `json:"initial_balances"`
	Mint            *MinterResponse `json:"mint,omitempty"`
}

type Cw20Coin struct {
	Address string  `json:"address"`
	Amount  sdk.Int `json:"amount"`
}

type MinterResponse struct {
	Minter string   `json:"minter"`
	Cap    *sdk.Int `json:"cap,omitempty"`
}

func (m Cw20InstantiateMsg) ValidateBasic() error {
	if len(m.Name) < 3 || len(m.Symbol) < 3 {
		return sdkerrors.Wrap(types.ErrInvalidMsg, "name and symbol need 3 chars at least")
	}
	if m.Decimals > 18 {
		return sdkerrors.Wrapf(types.ErrInvalidMsg, "decimals %d", m.Decimals)
	}
	for i, c := range m.InitialBalances {
		if err := ValidateAddress(c.Address); err != nil {
			return sdkerrors.Wrapf(err, "initial balance %d", i)
		}
		if c.Amount.IsNil() || c.Amount.IsNegative() {
			return sdkerrors.Wrapf(types.ErrInvalidMsg, "initial balance %d amount", i)
		}
	}
	if m.Mint != nil {
		return sdkerrors.Wrap(ValidateAddress(m.Mint.Minter), "minter")
	}
	return nil
}

type Cw20ExecuteMsg struct {
	Transfer          *Cw20TransferMsg  `json:"transfer,omitempty"`
	Send              *Cw20SendMsg      `json:"send,omitempty"`
	IncreaseAllowance *Cw20AllowanceMsg `json:"increase_allowance,omitempty"`
}

func (m Cw20ExecuteMsg) ValidateBasic() error {
	if err := exactlyOne("cw20 execute", m.Transfer != nil, m.Send != nil, m.IncreaseAllowance != nil); err != nil {
		return err
	}
	switch {
	case m.Transfer != nil:
		return validateAmountTo(m.Transfer.Recipient, m.Transfer.Amount)
	case m.Send != nil:
		return validateAmountTo(m.Send.Contract, m.Send.Amount)
	case m.IncreaseAllowance != nil:
		return validateAmountTo(m.IncreaseAllowance.Spender, m.IncreaseAllowance.Amount)
	}
	return nil
}

func validateAmountTo(addr string, amount sdk.Int) error {
	if err := ValidateAddress(addr); err != nil {
		return err
	}
	if amount.IsNil() || !amount.IsPositive() {
		return sdkerrors.Wrap(types.ErrInvalidMsg, "amount must be positive")
	}
	return nil
}

type Cw20TransferMsg struct {
	Recipient string  `json:"recipient"`
	Amount    sdk.Int `json:"amount"`
}

type Cw20SendMsg struct {
	Contract string  `json:"contract"`
	Amount   sdk.Int `json:"amount"`
	// Msg base64 encoded hook message
	Msg []byte `json:"msg"`
}

type Cw20AllowanceMsg struct {
	Spender string  `json:"spender"`
	Amount  sdk.Int `json:"amount"`
}

type GovInstantiateMsg struct {
	Quorum            sdk.Dec `json:"quorum"`
	Threshold         sdk.Dec `json:"threshold"`
	VotingPeriod      uint64  `json:"voting_period"`
	TimelockPeriod    uint64  `json:"timelock_period"`
	ProposalDeposit   sdk.Int `json:"proposal_deposit"`
	SnapshotPeriod    uint64  `json:"snapshot_period"`
	UnbondingPeriod   uint64  `json:"unbonding_period"`
	GovHodler         string  `json:"gov_hodler"`
	RegistrarContract string  `json:"registrar_contract"`
}

func (m GovInstantiateMsg) ValidateBasic() error {
	if err := validatePercentage("quorum", m.Quorum); err != nil {
		return err
	}
	if err := validatePercentage("threshold", m.Threshold); err != nil {
		return err
	}
	if m.VotingPeriod == 0 {
		return sdkerrors.Wrap(types.ErrEmpty, "voting period")
	}
	if m.ProposalDeposit.IsNil() || m.ProposalDeposit.IsNegative() {
		return sdkerrors.Wrap(types.ErrInvalidMsg, "proposal deposit")
	}
	if err := ValidateAddress(m.GovHodler); err != nil {
		return sdkerrors.Wrap(err, "gov hodler")
	}
	return sdkerrors.Wrap(ValidateAddress(m.RegistrarContract), "registrar contract")
}

type GovExecuteMsg struct {
	RegisterContracts *GovRegisterContractsMsg `json:"register_contracts,omitempty"`
	UpdateConfig      *GovConfigUpdate         `json:"update_config,omitempty"`
}

func (m GovExecuteMsg) ValidateBasic() error {
	if err := exactlyOne("gov execute", m.RegisterContracts != nil, m.UpdateConfig != nil); err != nil {
		return err
	}
	if m.RegisterContracts != nil {
		return ValidateAddress(m.RegisterContracts.HaloToken)
	}
	return validateOptionalAddress(m.UpdateConfig.Owner)
}

type GovRegisterContractsMsg struct {
	HaloToken string `json:"halo_token"`
}

type GovConfigUpdate struct {
	Owner        string   `json:"owner,omitempty"`
	Quorum       *sdk.Dec `json:"quorum,omitempty"`
	Threshold    *sdk.Dec `json:"threshold,omitempty"`
	VotingPeriod *uint64  `json:"voting_period,omitempty"`
}

// DistributionSchedule start time, end time, amount
type DistributionSchedule [3]interface{}

// NewDistributionSchedule returns a schedule entry with the amount as string
func NewDistributionSchedule(start, end uint64, amount sdk.Int) DistributionSchedule {
	return DistributionSchedule{start, end, amount.String()}
}

type StakingInstantiateMsg struct {
	HaloToken            string                 `json:"halo_token"`
	StakingToken         string                 `json:"staking_token"`
	DistributionSchedule []DistributionSchedule `json:"distribution_schedule"`
}

func (m StakingInstantiateMsg) ValidateBasic() error {
	if err := ValidateAddress(m.HaloToken); err != nil {
		return sdkerrors.Wrap(err, "halo token")
	}
	return sdkerrors.Wrap(ValidateAddress(m.StakingToken), "staking token")
}

type VestingInstantiateMsg struct {
	Owner       string `json:"owner"`
	HaloToken   string `json:"halo_token"`
	GenesisTime uint64 `json:"genesis_time"`
}

func (m VestingInstantiateMsg) ValidateBasic() error {
	if err := ValidateAddress(m.Owner); err != nil {
		return sdkerrors.Wrap(err, "owner")
	}
	if m.GenesisTime == 0 {
		return sdkerrors.Wrap(types.ErrEmpty, "genesis time")
	}
	return sdkerrors.Wrap(ValidateAddress(m.HaloToken), "halo token")
}

type CollectorInstantiateMsg struct {
	GovContract         string  `json:"gov_contract"`
	TerraswapFactory    string  `json:"terraswap_factory"`
	HaloToken           string  `json:"halo_token"`
	DistributorContract string  `json:"distributor_contract"`
	RewardFactor        sdk.Dec `json:"reward_factor"`
}

func (m CollectorInstantiateMsg) ValidateBasic() error {
	for name, a := range map[string]string{
		"gov contract":         m.GovContract,
		"terraswap factory":    m.TerraswapFactory,
		"halo token":           m.HaloToken,
		"distributor contract": m.DistributorContract,
	} {
		if err := ValidateAddress(a); err != nil {
			return sdkerrors.Wrap(err, name)
		}
	}
	return validatePercentage("reward factor", m.RewardFactor)
}

type DistributorInstantiateMsg struct {
	GovContract string   `json:"gov_contract"`
	HaloToken   string   `json:"halo_token"`
	Whitelist   []string `json:"whitelist"`
	SpendLimit  sdk.Int  `json:"spend_limit"`
}

func (m DistributorInstantiateMsg) ValidateBasic() error {
	if err := ValidateAddress(m.GovContract); err != nil {
		return sdkerrors.Wrap(err, "gov contract")
	}
	if err := ValidateAddress(m.HaloToken); err != nil {
		return sdkerrors.Wrap(err, "halo token")
	}
	for _, w := range m.Whitelist {
		if err := ValidateAddress(w); err != nil {
			return sdkerrors.Wrap(err, "whitelist")
		}
	}
	if m.SpendLimit.IsNil() || !m.SpendLimit.IsPositive() {
		return sdkerrors.Wrap(types.ErrInvalidMsg, "spend limit")
	}
	return nil
}

type CommunityInstantiateMsg struct {
	GovContract string  `json:"gov_contract"`
	HaloToken   string  `json:"halo_token"`
	SpendLimit  sdk.Int `json:"spend_limit"`
}

func (m CommunityInstantiateMsg) ValidateBasic() error {
	if err := ValidateAddress(m.GovContract); err != nil {
		return sdkerrors.Wrap(err, "gov contract")
	}
	if err := ValidateAddress(m.HaloToken); err != nil {
		return sdkerrors.Wrap(err, "halo token")
	}
	if m.SpendLimit.IsNil() || !m.SpendLimit.IsPositive() {
		return sdkerrors.Wrap(types.ErrInvalidMsg, "spend limit")
	}
	return nil
}

type AirdropInstantiateMsg struct {
	Owner     string `json:"owner"`
	HaloToken string `json:"halo_token"`
}

func (m AirdropInstantiateMsg) ValidateBasic() error {
	if err := ValidateAddress(m.Owner); err != nil {
		return sdkerrors.Wrap(err, "owner")
	}
	return sdkerrors.Wrap(ValidateAddress(m.HaloToken), "halo token")
}

type AirdropExecuteMsg struct {
	RegisterMerkleRoot *RegisterMerkleRootMsg `json:"register_merkle_root,omitempty"`
}

func (m AirdropExecuteMsg) ValidateBasic() error {
	if m.RegisterMerkleRoot == nil {
		return sdkerrors.Wrap(types.ErrEmpty, "airdrop execute: no variant set")
	}
	if len(m.RegisterMerkleRoot.MerkleRoot) != 64 {
		return sdkerrors.Wrapf(types.ErrInvalidMsg, "merkle root %q", m.RegisterMerkleRoot.MerkleRoot)
	}
	return nil
}

type RegisterMerkleRootMsg struct {
	// MerkleRoot hex encoded sha256
	MerkleRoot string `json:"merkle_root"`
}
