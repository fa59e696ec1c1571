package contract

import (
	"sort"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/types"
)

// Member of a cw4 group
type Member struct {
	Addr   string `json:"addr"`
	Weight uint64 `json:"weight"`
}

func (m Member) ValidateBasic() error {
	if err := ValidateAddress(m.Addr); err != nil {
		return sdkerrors.Wrap(err, "addr")
	}
	if m.Weight == 0 {
		return sdkerrors.Wrap(types.ErrEmpty, "weight")
	}
	return nil
}

// SortByWeightDesc sorts members by weight, address for ties
func SortByWeightDesc(s []Member) []Member {
	sort.Slice(s, func(i, j int) bool {
		return s[i].Weight > s[j].Weight || s[i].Weight == s[j].Weight && s[i].Addr < s[j].Addr
	})
	return s
}

func validateMembers(members []Member) error {
	seen := make(map[string]struct{}, len(members))
	for i, m := range members {
		if err := m.ValidateBasic(); err != nil {
			return sdkerrors.Wrapf(err, "member %d", i)
		}
		if _, ok := seen[m.Addr]; ok {
			return sdkerrors.Wrapf(types.ErrInvalidMsg, "duplicate member %s", m.Addr)
		}
		seen[m.Addr] = struct{}{}
	}
	return nil
}

type CW4InstantiateMsg struct {
	// Admin can update the members. Empty for none
	Admin   string   `json:"admin,omitempty"`
	Members []Member `json:"members"`
}

func (m CW4InstantiateMsg) ValidateBasic() error {
	if err := validateOptionalAddress(m.Admin); err != nil {
		return sdkerrors.Wrap(err, "admin")
	}
	if len(m.Members) == 0 {
		return sdkerrors.Wrap(types.ErrEmpty, "members")
	}
	return validateMembers(m.Members)
}

type CW4ExecuteMsg struct {
	UpdateAdmin   *UpdateAdminMsg   `json:"update_admin,omitempty"`
	UpdateMembers *UpdateMembersMsg `json:"update_members,omitempty"`
	AddHook       *HookMsg          `json:"add_hook,omitempty"`
	RemoveHook    *HookMsg          `json:"remove_hook,omitempty"`
}

func (m CW4ExecuteMsg) ValidateBasic() error {
	if err := exactlyOne("cw4 execute", m.UpdateAdmin != nil, m.UpdateMembers != nil, m.AddHook != nil, m.RemoveHook != nil); err != nil {
		return err
	}
	switch {
	case m.UpdateAdmin != nil:
		return validateOptionalAddress(m.UpdateAdmin.Admin)
	case m.UpdateMembers != nil:
		if err := validateMembers(m.UpdateMembers.Add); err != nil {
			return sdkerrors.Wrap(err, "add")
		}
		for _, r := range m.UpdateMembers.Remove {
			if err := ValidateAddress(r); err != nil {
				return sdkerrors.Wrap(err, "remove")
			}
		}
	case m.AddHook != nil:
		return ValidateAddress(m.AddHook.Addr)
	case m.RemoveHook != nil:
		return ValidateAddress(m.RemoveHook.Addr)
	}
	return nil
}

type UpdateAdminMsg struct {
	// Admin empty to remove the admin
	Admin string `json:"admin,omitempty"`
}

type UpdateMembersMsg struct {
	Add    []Member `json:"add"`
	Remove []string `json:"remove"`
}

type HookMsg struct {
	Addr string `json:"addr"`
}

type CW4Query struct {
	Admin       *struct{}         `json:"admin,omitempty"`
	TotalWeight *struct{}         `json:"total_weight,omitempty"`
	ListMembers *ListMembersQuery `json:"list_members,omitempty"`
	Member      *MemberQuery      `json:"member,omitempty"`
}

type ListMembersQuery struct {
	StartAfter string `json:"start_after,omitempty"`
	Limit      uint32 `json:"limit,omitempty"`
}

type MemberQuery struct {
	Addr     string `json:"addr"`
	AtHeight uint64 `json:"at_height,omitempty"`
}

type CW4AdminResponse struct {
	Admin string `json:"admin,omitempty"`
}

type CW4MemberListResponse struct {
	Members []Member `json:"members"`
}

type CW4MemberResponse struct {
	// Weight nil means not a member
	Weight *uint64 `json:"weight"`
}

type CW4TotalWeightResponse struct {
	Weight uint64 `json:"weight"`
}
