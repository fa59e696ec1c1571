package deploy

import (
	"context"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/app"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/types"
)

// SetupIca deploys the interchain account host and controller. When a connection is configured the
// controller registers an interchain account on it.
func SetupIca(ctx context.Context, h *app.Harness) error {
	d, err := newDeployer(h, StepSetupIca)
	if err != nil {
		return err
	}
	codes := make(map[string]uint64, 3)
	for _, file := range []string{WasmCW1Whitelist, WasmIcaHost, WasmIcaController} {
		if codes[file], err = d.upload(ctx, file); err != nil {
			return err
		}
	}
	if _, err := d.instantiate(ctx, ContractIcaHost, codes[WasmIcaHost], contract.IcaHostInstantiateMsg{CW1CodeID: codes[WasmCW1Whitelist]}); err != nil {
		return err
	}

	registrar, err := h.Book.Address(ContractRegistrar)
	if err != nil && !types.ErrNotFound.Is(err) {
		return err
	}
	controller, err := d.instantiate(ctx, ContractIcaController, codes[WasmIcaController], contract.IcaControllerInstantiateMsg{
		Admin:             d.sender.Address,
		RegistrarContract: registrar,
	})
	if err != nil {
		return err
	}

	cfg := h.Config.Ica
	if cfg.ConnectionID == "" {
		d.logger.Info("no interchain account registered, no connection configured")
		return nil
	}
	register := contract.IcaControllerExecuteMsg{Register: &contract.IcaRegisterMsg{
		ConnectionID: cfg.ConnectionID,
		PortID:       cfg.PortID,
		ChannelID:    cfg.ChannelID,
	}}
	res, err := d.execute(ctx, controller, register, nil)
	if err != nil {
		return sdkerrors.Wrap(err, "register interchain account")
	}
	d.logger.Info("interchain account registered", "connection_id", cfg.ConnectionID, "tx", res.TxHash)
	return nil
}
