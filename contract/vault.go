package contract

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/types"
)

// VaultInstantiateMsg instantiates a yield vault wrapping a money market
type VaultInstantiateMsg struct {
	AcctType                  AcctType `json:"acct_type"`
	MoneyMarket               string   `json:"moneymarket"`
	Name                      string   `json:"name"`
	Symbol                    string   `json:"symbol"`
	Decimals                  uint8    `json:"decimals"`
	RegistrarContract         string   `json:"registrar_contract"`
	Tax                       sdk.Dec  `json:"tax_per_block"`
	TreasuryWithdrawThreshold sdk.Int  `json:"treasury_withdraw_threshold"`
	HarvestToLiquid           sdk.Dec  `json:"harvest_to_liquid"`
}

func (m VaultInstantiateMsg) ValidateBasic() error {
	if err := m.AcctType.ValidateBasic(); err != nil {
		return err
	}
	if err := ValidateAddress(m.MoneyMarket); err != nil {
		return sdkerrors.Wrap(err, "moneymarket")
	}
	if err := ValidateAddress(m.RegistrarContract); err != nil {
		return sdkerrors.Wrap(err, "registrar contract")
	}
	if m.Name == "" || m.Symbol == "" {
		return sdkerrors.Wrap(types.ErrEmpty, "name or symbol")
	}
	if err := validatePercentage("tax per block", m.Tax); err != nil {
		return err
	}
	if m.TreasuryWithdrawThreshold.IsNil() || m.TreasuryWithdrawThreshold.IsNegative() {
		return sdkerrors.Wrap(types.ErrInvalidMsg, "treasury withdraw threshold")
	}
	return validatePercentage("harvest to liquid", m.HarvestToLiquid)
}

type VaultExecuteMsg struct {
	UpdateRegistrar *UpdateRegistrarMsg `json:"update_registrar,omitempty"`
	UpdateOwner     *UpdateOwnerMsg     `json:"update_owner,omitempty"`
	Harvest         *HarvestMsg         `json:"harvest,omitempty"`
}

func (m VaultExecuteMsg) ValidateBasic() error {
	if err := exactlyOne("vault execute", m.UpdateRegistrar != nil, m.UpdateOwner != nil, m.Harvest != nil); err != nil {
		return err
	}
	switch {
	case m.UpdateRegistrar != nil:
		return ValidateAddress(m.UpdateRegistrar.NewRegistrar)
	case m.UpdateOwner != nil:
		return ValidateAddress(m.UpdateOwner.NewOwner)
	case m.Harvest != nil:
		return validatePercentage("collector share", m.Harvest.CollectorShare)
	}
	return nil
}

type UpdateRegistrarMsg struct {
	NewRegistrar string `json:"new_registrar"`
}

type HarvestMsg struct {
	CollectorAddress string  `json:"collector_address"`
	CollectorShare   sdk.Dec `json:"collector_share"`
}

type VaultContractQuery struct {
	VaultConfig *struct{} `json:"vault_config,omitempty"`
	Balance     *struct {
		Address string `json:"address"`
	} `json:"balance,omitempty"`
}
