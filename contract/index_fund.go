package contract

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/types"
)

type IndexFundInstantiateMsg struct {
	RegistrarContract string   `json:"registrar_contract"`
	FundRotation      *uint64  `json:"fund_rotation,omitempty"`
	FundMemberLimit   *uint32  `json:"fund_member_limit,omitempty"`
	FundingGoal       *sdk.Int `json:"funding_goal,omitempty"`
}

func (m IndexFundInstantiateMsg) ValidateBasic() error {
	return sdkerrors.Wrap(ValidateAddress(m.RegistrarContract), "registrar contract")
}

type IndexFundExecuteMsg struct {
	CreateFund               *CreateFundMsg        `json:"create_fund,omitempty"`
	RemoveFund               *FundIDMsg            `json:"remove_fund,omitempty"`
	UpdateMembers            *UpdateFundMembersMsg `json:"update_members,omitempty"`
	UpdateAllianceMemberList *AllianceMemberMsg    `json:"update_alliance_member_list,omitempty"`
	Deposit                  *IndexFundDepositMsg  `json:"deposit,omitempty"`
	UpdateOwner              *UpdateOwnerMsg       `json:"update_owner,omitempty"`
}

func (m IndexFundExecuteMsg) ValidateBasic() error {
	if err := exactlyOne("index fund execute", m.CreateFund != nil, m.RemoveFund != nil, m.UpdateMembers != nil,
		m.UpdateAllianceMemberList != nil, m.Deposit != nil, m.UpdateOwner != nil); err != nil {
		return err
	}
	switch {
	case m.CreateFund != nil:
		return m.CreateFund.ValidateBasic()
	case m.RemoveFund != nil:
		if m.RemoveFund.FundID == 0 {
			return sdkerrors.Wrap(types.ErrEmpty, "fund id")
		}
	case m.UpdateMembers != nil:
		if m.UpdateMembers.FundID == 0 {
			return sdkerrors.Wrap(types.ErrEmpty, "fund id")
		}
	case m.UpdateAllianceMemberList != nil:
		return m.UpdateAllianceMemberList.ValidateBasic()
	case m.UpdateOwner != nil:
		return ValidateAddress(m.UpdateOwner.NewOwner)
	}
	return nil
}

type CreateFundMsg struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Members       []uint32 `json:"members"`
	RotatingFund  *bool    `json:"rotating_fund,omitempty"`
	SplitToLiquid *sdk.Dec `json:"split_to_liquid,omitempty"`
	ExpiryTime    *uint64  `json:"expiry_time,omitempty"`
	ExpiryHeight  *uint64  `json:"expiry_height,omitempty"`
}

func (m CreateFundMsg) ValidateBasic() error {
	if m.Name == "" {
		return sdkerrors.Wrap(types.ErrEmpty, "name")
	}
	if len(m.Members) == 0 {
		return sdkerrors.Wrap(types.ErrEmpty, "members")
	}
	if m.SplitToLiquid != nil {
		return validatePercentage("split to liquid", *m.SplitToLiquid)
	}
	return nil
}

type FundIDMsg struct {
	FundID uint64 `json:"fund_id"`
}

type UpdateFundMembersMsg struct {
	FundID uint64   `json:"fund_id"`
	Add    []uint32 `json:"add"`
	Remove []uint32 `json:"remove"`
}

// AllianceMemberMsg adds or removes an alliance member wallet that may donate through the fund
type AllianceMemberMsg struct {
	Address string         `json:"address"`
	Member  AllianceMember `json:"member"`
	Action  string         `json:"action"`
}

type AllianceMember struct {
	Name    string `json:"name"`
	Logo    string `json:"logo,omitempty"`
	Website string `json:"website,omitempty"`
}

func (m AllianceMemberMsg) ValidateBasic() error {
	if err := ValidateAddress(m.Address); err != nil {
		return err
	}
	if m.Action != "add" && m.Action != "remove" {
		return sdkerrors.Wrapf(types.ErrInvalidMsg, "action %q", m.Action)
	}
	return nil
}

// IndexFundDepositMsg donates to a fund. FundID nil donates to the active fund
type IndexFundDepositMsg struct {
	FundID *uint64  `json:"fund_id,omitempty"`
	Split  *sdk.Dec `json:"split,omitempty"`
}

type IndexFundQuery struct {
	Config            *struct{}  `json:"config,omitempty"`
	State             *struct{}  `json:"state,omitempty"`
	FundsList         *struct{}  `json:"funds_list,omitempty"`
	FundDetails       *FundIDMsg `json:"fund_details,omitempty"`
	ActiveFundDetails *struct{}  `json:"active_fund_details,omitempty"`
}

type IndexFund struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []uint32 `json:"members"`
}

type FundDetailsResponse struct {
	Fund *IndexFund `json:"fund,omitempty"`
}

type FundListResponse struct {
	Funds []IndexFund `json:"funds"`
}

type IndexFundStateResponse struct {
	TotalFunds             uint64 `json:"total_funds"`
	ActiveFund             uint64 `json:"active_fund"`
	TerraAllianceDonations []Coin `json:"terra_alliance,omitempty"`
}
