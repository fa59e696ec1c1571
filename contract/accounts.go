package contract

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/types"
)

// AcctType endowment sub account
type AcctType string

const (
	AcctTypeLocked AcctType = "locked"
	AcctTypeLiquid AcctType = "liquid"
)

func (a AcctType) ValidateBasic() error {
	switch a {
	case AcctTypeLocked, AcctTypeLiquid:
		return nil
	default:
		return sdkerrors.Wrapf(types.ErrInvalidMsg, "acct type %q", string(a))
	}
}

type AccountsInstantiateMsg struct {
	OwnerSC           string `json:"owner_sc"`
	RegistrarContract string `json:"registrar_contract"`
}

func (m AccountsInstantiateMsg) ValidateBasic() error {
	if err := ValidateAddress(m.OwnerSC); err != nil {
		return sdkerrors.Wrap(err, "owner sc")
	}
	return sdkerrors.Wrap(ValidateAddress(m.RegistrarContract), "registrar contract")
}

type AccountsExecuteMsg struct {
	CreateEndowment       *CreateEndowmentMsg       `json:"create_endowment,omitempty"`
	Deposit               *DepositMsg               `json:"deposit,omitempty"`
	Withdraw              *WithdrawMsg              `json:"withdraw,omitempty"`
	ProposeLockedWithdraw *ProposeLockedWithdrawMsg `json:"propose_locked_withdraw,omitempty"`
	WithdrawLocked        *WithdrawMsg              `json:"withdraw_locked,omitempty"`
	UpdateConfig          *AccountsConfigUpdate     `json:"update_config,omitempty"`
}

func (m AccountsExecuteMsg) ValidateBasic() error {
	if err := exactlyOne("accounts execute", m.CreateEndowment != nil, m.Deposit != nil, m.Withdraw != nil,
		m.ProposeLockedWithdraw != nil, m.WithdrawLocked != nil, m.UpdateConfig != nil); err != nil {
		return err
	}
	switch {
	case m.CreateEndowment != nil:
		return m.CreateEndowment.ValidateBasic()
	case m.Deposit != nil:
		return m.Deposit.ValidateBasic()
	case m.Withdraw != nil:
		return m.Withdraw.ValidateBasic()
	case m.ProposeLockedWithdraw != nil:
		return m.ProposeLockedWithdraw.ValidateBasic()
	case m.WithdrawLocked != nil:
		return m.WithdrawLocked.ValidateBasic()
	case m.UpdateConfig != nil:
		return m.UpdateConfig.ValidateBasic()
	}
	return nil
}

// CreateEndowmentMsg creates an endowment with its own cw4 group and cw3 multisig
type CreateEndowmentMsg struct {
	Owner                  string    `json:"owner"`
	Name                   string    `json:"name"`
	Description            string    `json:"description"`
	WithdrawBeforeMaturity bool      `json:"withdraw_before_maturity"`
	MaturityTime           *uint64   `json:"maturity_time,omitempty"`
	MaturityHeight         *uint64   `json:"maturity_height,omitempty"`
	CW4Members             []Member  `json:"cw4_members"`
	KycDonorsOnly          bool      `json:"kyc_donors_only"`
	CW3Threshold           Threshold `json:"cw3_threshold"`
	CW3MaxVotingPeriod     uint64    `json:"cw3_max_voting_period"`
	Profile                Profile   `json:"profile"`
}

func (m CreateEndowmentMsg) ValidateBasic() error {
	if err := ValidateAddress(m.Owner); err != nil {
		return sdkerrors.Wrap(err, "owner")
	}
	if m.Name == "" {
		return sdkerrors.Wrap(types.ErrEmpty, "name")
	}
	if len(m.CW4Members) == 0 {
		return sdkerrors.Wrap(types.ErrEmpty, "cw4 members")
	}
	if err := validateMembers(m.CW4Members); err != nil {
		return sdkerrors.Wrap(err, "cw4 members")
	}
	if err := m.CW3Threshold.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(err, "cw3 threshold")
	}
	if m.CW3MaxVotingPeriod == 0 {
		return sdkerrors.Wrap(types.ErrEmpty, "cw3 max voting period")
	}
	return nil
}

type Profile struct {
	Overview        string  `json:"overview"`
	UNSDGs          []uint8 `json:"un_sdg,omitempty"`
	Tier            *uint8  `json:"tier,omitempty"`
	Logo            string  `json:"logo,omitempty"`
	Image           string  `json:"image,omitempty"`
	URL             string  `json:"url,omitempty"`
	RegistrationNo  string  `json:"registration_number,omitempty"`
	CountryOfOrigin string  `json:"country_of_origin,omitempty"`
	EndowmentType   string  `json:"endow_type"`
}

// DepositMsg splits the sent funds between the locked and liquid sub accounts of an endowment
type DepositMsg struct {
	ID               uint32  `json:"id"`
	LockedPercentage sdk.Dec `json:"locked_percentage"`
	LiquidPercentage sdk.Dec `json:"liquid_percentage"`
}

// NewDepositMsg returns a deposit message with liquid = 1 - locked
func NewDepositMsg(id uint32, locked sdk.Dec) AccountsExecuteMsg {
	return AccountsExecuteMsg{Deposit: &DepositMsg{
		ID:               id,
		LockedPercentage: locked,
		LiquidPercentage: sdk.OneDec().Sub(locked),
	}}
}

func (m DepositMsg) ValidateBasic() error {
	if m.ID == 0 {
		return sdkerrors.Wrap(types.ErrEmpty, "id")
	}
	if err := validatePercentage("locked percentage", m.LockedPercentage); err != nil {
		return err
	}
	if err := validatePercentage("liquid percentage", m.LiquidPercentage); err != nil {
		return err
	}
	if !m.LockedPercentage.Add(m.LiquidPercentage).Equal(sdk.OneDec()) {
		return sdkerrors.Wrapf(types.ErrInvalidMsg, "locked %s and liquid %s must sum up to 1", m.LockedPercentage, m.LiquidPercentage)
	}
	return nil
}

// WithdrawMsg moves funds out of a sub account to the beneficiary
type WithdrawMsg struct {
	ID          uint32   `json:"id"`
	AcctType    AcctType `json:"acct_type"`
	Beneficiary string   `json:"beneficiary"`
	Assets      []Coin   `json:"assets"`
}

func (m WithdrawMsg) ValidateBasic() error {
	if m.ID == 0 {
		return sdkerrors.Wrap(types.ErrEmpty, "id")
	}
	if err := m.AcctType.ValidateBasic(); err != nil {
		return err
	}
	if err := ValidateAddress(m.Beneficiary); err != nil {
		return sdkerrors.Wrap(err, "beneficiary")
	}
	return validateAssets(m.Assets)
}

// ProposeLockedWithdrawMsg asks the ap team multisig to release locked funds. The accounts contract
// submits a new proposal on the ap team multisig with a withdraw_locked message.
type ProposeLockedWithdrawMsg struct {
	ID          uint32 `json:"id"`
	Beneficiary string `json:"beneficiary"`
	Description string `json:"description"`
	Assets      []Coin `json:"assets"`
}

func (m ProposeLockedWithdrawMsg) ValidateBasic() error {
	if m.ID == 0 {
		return sdkerrors.Wrap(types.ErrEmpty, "id")
	}
	if err := ValidateAddress(m.Beneficiary); err != nil {
		return sdkerrors.Wrap(err, "beneficiary")
	}
	return validateAssets(m.Assets)
}

func validateAssets(assets []Coin) error {
	if len(assets) == 0 {
		return sdkerrors.Wrap(types.ErrEmpty, "assets")
	}
	for _, a := range assets {
		amount, ok := sdk.NewIntFromString(a.Amount)
		if !ok || !amount.IsPositive() {
			return sdkerrors.Wrapf(types.ErrInvalidMsg, "asset amount %q", a.Amount)
		}
		if err := sdk.ValidateDenom(a.Denom); err != nil {
			return sdkerrors.Wrapf(types.ErrInvalidMsg, "asset denom %q", a.Denom)
		}
	}
	return nil
}

type AccountsConfigUpdate struct {
	SettingsController   string `json:"settings_controller,omitempty"`
	MaxGeneralCategoryID *uint8 `json:"max_general_category_id,omitempty"`
}

func (m AccountsConfigUpdate) ValidateBasic() error {
	return validateOptionalAddress(m.SettingsController)
}

type AccountsQuery struct {
	Config    *struct{}       `json:"config,omitempty"`
	Endowment *EndowmentQuery `json:"endowment,omitempty"`
	State     *EndowmentQuery `json:"state,omitempty"`
	Balance   *EndowmentQuery `json:"balance,omitempty"`
}

type EndowmentQuery struct {
	ID uint32 `json:"id"`
}

type EndowmentDetailsResponse struct {
	Owner                  string `json:"owner"`
	Name                   string `json:"name"`
	WithdrawBeforeMaturity bool   `json:"withdraw_before_maturity"`
	Status                 string `json:"status"`
}

type EndowmentBalanceResponse struct {
	Locked []Coin `json:"locked_native"`
	Liquid []Coin `json:"liquid_native"`
}

// EndowmentCreated is decoded from a create_endowment result
type EndowmentCreated struct {
	ID uint32
	// Multisig is the endowment cw3 that owns the endowment
	Multisig string
}

// DecodeCreateEndowment reads the new endowment id and its multisig address from the accounts event
func DecodeCreateEndowment(r *chain.TxResult, accountsAddr string) (EndowmentCreated, error) {
	if err := r.Err(); err != nil {
		return EndowmentCreated{}, err
	}
	rawID, ok := r.ContractAttribute(types.EventTypeWasm, accountsAddr, types.AttributeKeyEndowID)
	if !ok {
		return EndowmentCreated{}, sdkerrors.Wrapf(types.ErrAttributeNotFound, "%s in tx %s", types.AttributeKeyEndowID, r.TxHash)
	}
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		return EndowmentCreated{}, sdkerrors.Wrapf(types.ErrUnexpectedResult, "endowment id %q", rawID)
	}
	multisig, ok := r.ContractAttribute(types.EventTypeWasm, accountsAddr, types.AttributeKeyEndowAddr)
	if !ok {
		return EndowmentCreated{}, sdkerrors.Wrapf(types.ErrAttributeNotFound, "%s in tx %s", types.AttributeKeyEndowAddr, r.TxHash)
	}
	return EndowmentCreated{ID: uint32(id), Multisig: multisig}, nil
}
