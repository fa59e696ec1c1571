package contract

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/types"
)

type SplitDetails struct {
	Min     sdk.Dec `json:"min"`
	Max     sdk.Dec `json:"max"`
	Default sdk.Dec `json:"default"`
}

func (s SplitDetails) ValidateBasic() error {
	for _, v := range []struct {
		name string
		p    sdk.Dec
	}{{"min", s.Min}, {"max", s.Max}, {"default", s.Default}} {
		if err := validatePercentage(v.name, v.p); err != nil {
			return err
		}
	}
	if s.Min.GT(s.Max) || s.Default.LT(s.Min) || s.Default.GT(s.Max) {
		return sdkerrors.Wrapf(types.ErrInvalidMsg, "split %s <= %s <= %s", s.Min, s.Default, s.Max)
	}
	return nil
}

type RegistrarInstantiateMsg struct {
	Treasury      string        `json:"treasury"`
	TaxRate       sdk.Dec       `json:"tax_rate"`
	SplitToLiquid *SplitDetails `json:"split_to_liquid,omitempty"`
	// AcceptedTokens native denoms the protocol accepts for donations
	AcceptedTokens []string `json:"accepted_tokens,omitempty"`
}

func (m RegistrarInstantiateMsg) ValidateBasic() error {
	if err := ValidateAddress(m.Treasury); err != nil {
		return sdkerrors.Wrap(err, "treasury")
	}
	if err := validatePercentage("tax rate", m.TaxRate); err != nil {
		return err
	}
	if m.SplitToLiquid != nil {
		if err := m.SplitToLiquid.ValidateBasic(); err != nil {
			return sdkerrors.Wrap(err, "split to liquid")
		}
	}
	for _, d := range m.AcceptedTokens {
		if err := sdk.ValidateDenom(d); err != nil {
			return sdkerrors.Wrapf(types.ErrInvalidMsg, "accepted token %q", d)
		}
	}
	return nil
}

type RegistrarExecuteMsg struct {
	UpdateConfig          *RegistrarConfigUpdate    `json:"update_config,omitempty"`
	UpdateOwner           *UpdateOwnerMsg           `json:"update_owner,omitempty"`
	VaultAdd              *VaultAddMsg              `json:"vault_add,omitempty"`
	VaultUpdateStatus     *VaultUpdateStatusMsg     `json:"vault_update_status,omitempty"`
	UpdateEndowmentStatus *UpdateEndowmentStatusMsg `json:"update_endowment_status,omitempty"`
}

func (m RegistrarExecuteMsg) ValidateBasic() error {
	if err := exactlyOne("registrar execute", m.UpdateConfig != nil, m.UpdateOwner != nil, m.VaultAdd != nil,
		m.VaultUpdateStatus != nil, m.UpdateEndowmentStatus != nil); err != nil {
		return err
	}
	switch {
	case m.UpdateConfig != nil:
		return m.UpdateConfig.ValidateBasic()
	case m.UpdateOwner != nil:
		return ValidateAddress(m.UpdateOwner.NewOwner)
	case m.VaultAdd != nil:
		return m.VaultAdd.ValidateBasic()
	case m.VaultUpdateStatus != nil:
		return ValidateAddress(m.VaultUpdateStatus.VaultAddr)
	case m.UpdateEndowmentStatus != nil:
		return m.UpdateEndowmentStatus.ValidateBasic()
	}
	return nil
}

// RegistrarConfigUpdate wires contract addresses and code ids into the registrar.
// Unset fields are left unchanged.
type RegistrarConfigUpdate struct {
	AccountsContract      string   `json:"accounts_contract,omitempty"`
	IndexFundContract     string   `json:"index_fund_contract,omitempty"`
	CW3Code               *uint64  `json:"cw3_code,omitempty"`
	CW4Code               *uint64  `json:"cw4_code,omitempty"`
	Treasury              string   `json:"treasury,omitempty"`
	TaxRate               *sdk.Dec `json:"tax_rate,omitempty"`
	ApprovedCharities     []string `json:"approved_charities,omitempty"`
	DefaultVault          string   `json:"default_vault,omitempty"`
	HaloToken             string   `json:"halo_token,omitempty"`
	GovContract           string   `json:"gov_contract,omitempty"`
	CharitySharesContract string   `json:"charity_shares_contract,omitempty"`
	CollectorAddr         string   `json:"collector_addr,omitempty"`
	ReviewTeamMultisig    string   `json:"applications_review,omitempty"`
	SwapRouter            string   `json:"swaps_router,omitempty"`
}

func (m RegistrarConfigUpdate) ValidateBasic() error {
	for name, a := range map[string]string{
		"accounts contract":       m.AccountsContract,
		"index fund contract":     m.IndexFundContract,
		"treasury":                m.Treasury,
		"default vault":           m.DefaultVault,
		"halo token":              m.HaloToken,
		"gov contract":            m.GovContract,
		"charity shares contract": m.CharitySharesContract,
		"collector":               m.CollectorAddr,
		"applications review":     m.ReviewTeamMultisig,
		"swaps router":            m.SwapRouter,
	} {
		if err := validateOptionalAddress(a); err != nil {
			return sdkerrors.Wrap(err, name)
		}
	}
	for _, a := range m.ApprovedCharities {
		if err := ValidateAddress(a); err != nil {
			return sdkerrors.Wrap(err, "approved charities")
		}
	}
	if m.TaxRate != nil {
		return validatePercentage("tax rate", *m.TaxRate)
	}
	return nil
}

type UpdateOwnerMsg struct {
	NewOwner string `json:"new_owner"`
}

type VaultAddMsg struct {
	Network    string   `json:"network,omitempty"`
	VaultAddr  string   `json:"vault_addr"`
	InputDenom string   `json:"input_denom"`
	YieldToken string   `json:"yield_token"`
	AcctType   AcctType `json:"acct_type"`
}

func (m VaultAddMsg) ValidateBasic() error {
	if err := ValidateAddress(m.VaultAddr); err != nil {
		return sdkerrors.Wrap(err, "vault addr")
	}
	if err := sdk.ValidateDenom(m.InputDenom); err != nil {
		return sdkerrors.Wrapf(types.ErrInvalidMsg, "input denom %q", m.InputDenom)
	}
	if err := ValidateAddress(m.YieldToken); err != nil {
		return sdkerrors.Wrap(err, "yield token")
	}
	return m.AcctType.ValidateBasic()
}

type VaultUpdateStatusMsg struct {
	VaultAddr string `json:"vault_addr"`
	Approved  bool   `json:"approved"`
}

// EndowmentStatus lifecycle states an endowment can be moved to by the registrar owner
type EndowmentStatus uint8

const (
	EndowmentStatusInactive EndowmentStatus = iota
	EndowmentStatusApproved
	EndowmentStatusFrozen
	EndowmentStatusClosed
)

type UpdateEndowmentStatusMsg struct {
	EndowmentID uint32          `json:"endowment_id"`
	Status      EndowmentStatus `json:"status"`
	Beneficiary *Beneficiary    `json:"beneficiary,omitempty"`
}

func (m UpdateEndowmentStatusMsg) ValidateBasic() error {
	if m.EndowmentID == 0 {
		return sdkerrors.Wrap(types.ErrEmpty, "endowment id")
	}
	if m.Status > EndowmentStatusClosed {
		return sdkerrors.Wrapf(types.ErrInvalidMsg, "status %d", m.Status)
	}
	if m.Status == EndowmentStatusClosed && m.Beneficiary == nil {
		return sdkerrors.Wrap(types.ErrEmpty, "beneficiary for closing")
	}
	if m.Beneficiary != nil {
		return m.Beneficiary.ValidateBasic()
	}
	return nil
}

// Beneficiary receives the funds of a closed endowment
type Beneficiary struct {
	Endowment *EndowmentBeneficiary `json:"endowment,omitempty"`
	IndexFund *IndexFundBeneficiary `json:"index_fund,omitempty"`
	Wallet    *WalletBeneficiary    `json:"wallet,omitempty"`
}

type EndowmentBeneficiary struct {
	ID uint32 `json:"id"`
}

type IndexFundBeneficiary struct {
	ID uint64 `json:"id"`
}

type WalletBeneficiary struct {
	Address string `json:"address"`
}

func (b Beneficiary) ValidateBasic() error {
	if err := exactlyOne("beneficiary", b.Endowment != nil, b.IndexFund != nil, b.Wallet != nil); err != nil {
		return err
	}
	if b.Wallet != nil {
		return ValidateAddress(b.Wallet.Address)
	}
	return nil
}

type RegistrarQuery struct {
	Config    *struct{}       `json:"config,omitempty"`
	VaultList *VaultListQuery `json:"vault_list,omitempty"`
	Vault     *VaultQuery     `json:"vault,omitempty"`
}

type VaultListQuery struct {
	ApprovedOnly bool   `json:"approved,omitempty"`
	StartAfter   string `json:"start_after,omitempty"`
	Limit        uint32 `json:"limit,omitempty"`
}

type VaultQuery struct {
	VaultAddr string `json:"vault_addr"`
}

type RegistrarConfigResponse struct {
	Owner              string  `json:"owner"`
	Version            string  `json:"version"`
	AccountsContract   string  `json:"accounts_contract,omitempty"`
	IndexFundContract  string  `json:"index_fund,omitempty"`
	Treasury           string  `json:"treasury"`
	TaxRate            sdk.Dec `json:"tax_rate"`
	CW3Code            *uint64 `json:"cw3_code,omitempty"`
	CW4Code            *uint64 `json:"cw4_code,omitempty"`
	ReviewTeamMultisig string  `json:"applications_review,omitempty"`
}

type VaultDetail struct {
	Address  string   `json:"address"`
	Network  string   `json:"network,omitempty"`
	Approved bool     `json:"approved"`
	AcctType AcctType `json:"acct_type"`
}

type VaultListResponse struct {
	Vaults []VaultDetail `json:"vaults"`
}
