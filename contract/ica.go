package contract

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	host "github.com/cosmos/ibc-go/v2/modules/core/24-host"

	"github.com/angelprotocol/harness/types"
)

// IcaControllerInstantiateMsg instantiates the interchain account controller
type IcaControllerInstantiateMsg struct {
	Admin             string `json:"admin"`
	RegistrarContract string `json:"registrar_contract,omitempty"`
}

func (m IcaControllerInstantiateMsg) ValidateBasic() error {
	if err := ValidateAddress(m.Admin); err != nil {
		return sdkerrors.Wrap(err, "admin")
	}
	return sdkerrors.Wrap(validateOptionalAddress(m.RegistrarContract), "registrar contract")
}

// IcaHostInstantiateMsg instantiates the host side of the interchain account
type IcaHostInstantiateMsg struct {
	CW1CodeID uint64 `json:"cw1_code_id"`
}

func (m IcaHostInstantiateMsg) ValidateBasic() error {
	if m.CW1CodeID == 0 {
		return sdkerrors.Wrap(types.ErrEmpty, "cw1 code id")
	}
	return nil
}

type IcaControllerExecuteMsg struct {
	Register    *IcaRegisterMsg `json:"register,omitempty"`
	UpdateAdmin *UpdateAdminMsg `json:"update_admin,omitempty"`
}

func (m IcaControllerExecuteMsg) ValidateBasic() error {
	if err := exactlyOne("ica controller execute", m.Register != nil, m.UpdateAdmin != nil); err != nil {
		return err
	}
	if m.Register != nil {
		return m.Register.ValidateBasic()
	}
	return ValidateAddress(m.UpdateAdmin.Admin)
}

// IcaRegisterMsg opens an interchain account over an existing connection
type IcaRegisterMsg struct {
	ConnectionID string `json:"connection_id"`
	PortID       string `json:"port_id,omitempty"`
	ChannelID    string `json:"channel_id,omitempty"`
}

func (m IcaRegisterMsg) ValidateBasic() error {
	if err := host.ConnectionIdentifierValidator(m.ConnectionID); err != nil {
		return sdkerrors.Wrapf(types.ErrInvalidMsg, "connection id: %s", err)
	}
	if m.PortID != "" {
		if err := host.PortIdentifierValidator(m.PortID); err != nil {
			return sdkerrors.Wrapf(types.ErrInvalidMsg, "port id: %s", err)
		}
	}
	if m.ChannelID != "" {
		if err := host.ChannelIdentifierValidator(m.ChannelID); err != nil {
			return sdkerrors.Wrapf(types.ErrInvalidMsg, "channel id: %s", err)
		}
	}
	return nil
}

type IcaControllerQuery struct {
	Config  *struct{}        `json:"config,omitempty"`
	Account *IcaAccountQuery `json:"account,omitempty"`
}

type IcaAccountQuery struct {
	ChannelID string `json:"channel_id"`
}

type IcaAccountResponse struct {
	ChannelID string `json:"channel_id"`
	Address   string `json:"address,omitempty"`
}
