package deploy

import (
	"context"
	"fmt"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/app"
	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/config"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/cw3"
)

// SetupEndowments creates the configured endowments one after another. Every new endowment is
// recorded in the address book and the endowment list, then approved in the registrar by an ap team
// proposal.
func SetupEndowments(ctx context.Context, h *app.Harness) error {
	logger := h.Logger.With("module", "deploy", "step", StepSetupEndowments)
	accounts, err := h.Book.Address(ContractAccounts)
	if err != nil {
		return sdkerrors.Wrap(err, "run setup_core first")
	}
	registrar, err := h.Book.Address(ContractRegistrar)
	if err != nil {
		return sdkerrors.Wrap(err, "run setup_core first")
	}
	apMultisig, apTeam, err := ApTeam(h)
	if err != nil {
		return err
	}
	for i, e := range h.Config.Endowments {
		created, err := CreateEndowment(ctx, h, accounts, e)
		if err != nil {
			return sdkerrors.Wrapf(err, "endowment %d %q", i, e.Name)
		}
		approve := cw3.SubMsg{
			Contract: registrar,
			Msg: contract.RegistrarExecuteMsg{UpdateEndowmentStatus: &contract.UpdateEndowmentStatusMsg{
				EndowmentID: created.ID,
				Status:      contract.EndowmentStatusApproved,
			}},
		}
		title := fmt.Sprintf("Approve endowment %d", created.ID)
		if _, err := h.CW3.Pass(ctx, apTeam, apMultisig, title, e.Name, approve); err != nil {
			return sdkerrors.Wrapf(err, "endowment %d %q", i, e.Name)
		}
		logger.Info("endowment approved", "endowment_id", created.ID, "multisig", created.Multisig)
	}
	return nil
}

// CreateEndowment sends create_endowment signed by the first member and records the endowment
// multisig.
func CreateEndowment(ctx context.Context, h *app.Harness, accounts string, e config.EndowmentConfig) (contract.EndowmentCreated, error) {
	members, err := h.Wallets(e.Members)
	if err != nil {
		return contract.EndowmentCreated{}, err
	}
	owner := members[0]
	msg := contract.AccountsExecuteMsg{CreateEndowment: EndowmentMsg(e, members)}
	res, err := owner.Execute(ctx, accounts, msg, nil)
	if err != nil {
		return contract.EndowmentCreated{}, err
	}
	created, err := contract.DecodeCreateEndowment(res, accounts)
	if err != nil {
		return contract.EndowmentCreated{}, err
	}
	if err := h.Book.SetAddress(EndowmentName(created.ID), created.Multisig); err != nil {
		return contract.EndowmentCreated{}, err
	}
	if err := h.Endowments.Append(created.Multisig); err != nil {
		return contract.EndowmentCreated{}, err
	}
	h.Logger.Info("endowment created", "name", e.Name, "endowment_id", created.ID, "multisig", created.Multisig,
		"owner", owner.String(), "tx", res.TxHash)
	return created, nil
}

// EndowmentMsg builds the create_endowment payload. The first member is the owner.
func EndowmentMsg(e config.EndowmentConfig, members []chain.Wallet) *contract.CreateEndowmentMsg {
	msg := &contract.CreateEndowmentMsg{
		Owner:                  members[0].Address,
		Name:                   e.Name,
		Description:            e.Description,
		WithdrawBeforeMaturity: e.WithdrawBeforeMaturity,
		CW4Members:             WeightedMembers(members),
		CW3Threshold:           contract.PercentageThreshold(config.Dec(e.Threshold)),
		CW3MaxVotingPeriod:     e.MaxVotingPeriod,
		Profile: contract.Profile{
			Overview:      e.Overview,
			EndowmentType: e.EndowmentType,
		},
	}
	if e.MaturityTime != 0 {
		maturity := e.MaturityTime
		msg.MaturityTime = &maturity
	}
	return msg
}
