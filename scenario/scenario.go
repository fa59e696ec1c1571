package scenario

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/app"
	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/config"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/cw3"
	"github.com/angelprotocol/harness/deploy"
	"github.com/angelprotocol/harness/types"
)

// EndowmentID is the endowment the scenarios deposit to and withdraw from. setup_endowments creates
// it first.
const EndowmentID uint32 = 1

// Scenario is an integration check against a deployed network
type Scenario struct {
	Name string
	Run  func(ctx context.Context, h *app.Harness) error
}

// All scenarios in execution order
var All = []Scenario{
	{"donor_deposit", DonorDeposit},
	{"index_fund_donation", IndexFundDonation},
	{"unauthorized_update_rejected", UnauthorizedUpdateRejected},
	{"application_approval", ApplicationApproval},
	{"charity_can_withdraw_locked", CharityCanWithdrawLocked},
}

// Run executes all scenarios in order and stops at the first failure
func Run(ctx context.Context, h *app.Harness) error {
	for _, s := range All {
		logger := h.Logger.With("module", "scenario", "scenario", s.Name)
		logger.Info("scenario started")
		if err := s.Run(ctx, h); err != nil {
			logger.Error("scenario failed", "err", err)
			return sdkerrors.Wrapf(err, "scenario %s", s.Name)
		}
		logger.Info("scenario passed")
	}
	return nil
}

// ExpectRejected returns nil when err is a transaction the chain refused. A nil err means the chain
// accepted a message it should have rejected.
func ExpectRejected(err error) error {
	switch {
	case err == nil:
		return sdkerrors.Wrap(types.ErrUnexpectedResult, "transaction accepted, expected rejection")
	case types.ErrTransaction.Is(err):
		return nil
	default:
		return err
	}
}

// DonorDeposit sends the configured deposit from the pleb wallet to the endowment, split between the
// locked and liquid accounts.
func DonorDeposit(ctx context.Context, h *app.Harness) error {
	accounts, err := h.Book.Address(deploy.ContractAccounts)
	if err != nil {
		return err
	}
	donor, err := h.Wallet(config.RolePleb)
	if err != nil {
		return err
	}
	funds, err := sdk.ParseCoinsNormalized(h.Config.Scenario.Deposit)
	if err != nil {
		return sdkerrors.Wrapf(types.ErrInvalidConfig, "deposit: %s", err)
	}
	msg := contract.NewDepositMsg(EndowmentID, config.Dec(h.Config.Scenario.LockedPercentage))
	res, err := donor.Execute(ctx, accounts, msg, funds)
	if err != nil {
		return err
	}
	h.Logger.Info("deposit sent", "endowment_id", EndowmentID, "funds", funds.String(), "tx", res.TxHash)
	return nil
}

// IndexFundDonation creates a fund of the endowment through the ap team and donates to the active
// fund from the pleb wallet.
func IndexFundDonation(ctx context.Context, h *app.Harness) error {
	indexFund, err := h.Book.Address(deploy.ContractIndexFund)
	if err != nil {
		return err
	}
	apMultisig, apTeam, err := deploy.ApTeam(h)
	if err != nil {
		return err
	}
	create := cw3.SubMsg{
		Contract: indexFund,
		Msg: contract.IndexFundExecuteMsg{CreateFund: &contract.CreateFundMsg{
			Name:        "Scenario fund",
			Description: "Fund of the first endowment",
			Members:     []uint32{EndowmentID},
		}},
	}
	if _, err := h.CW3.Pass(ctx, apTeam, apMultisig, "Create index fund", "", create); err != nil {
		return sdkerrors.Wrap(err, "create fund")
	}

	donor, err := h.Wallet(config.RolePleb)
	if err != nil {
		return err
	}
	funds, err := sdk.ParseCoinsNormalized(h.Config.Scenario.Deposit)
	if err != nil {
		return sdkerrors.Wrapf(types.ErrInvalidConfig, "deposit: %s", err)
	}
	res, err := donor.Execute(ctx, indexFund, contract.IndexFundExecuteMsg{Deposit: &contract.IndexFundDepositMsg{}}, funds)
	if err != nil {
		return sdkerrors.Wrap(err, "donate")
	}
	h.Logger.Info("index fund donation sent", "funds", funds.String(), "tx", res.TxHash)
	return nil
}

// UnauthorizedUpdateRejected checks that the registrar config can only be changed by the ap team
// multisig, not by the deployer nor by an outsider.
func UnauthorizedUpdateRejected(ctx context.Context, h *app.Harness) error {
	registrar, err := h.Book.Address(deploy.ContractRegistrar)
	if err != nil {
		return err
	}
	roles := []config.Role{h.Config.Deployer(), config.RolePleb}
	senders, err := h.Wallets(roles)
	if err != nil {
		return err
	}
	taxRate := sdk.NewDecWithPrec(99, 2)
	update := contract.RegistrarExecuteMsg{UpdateConfig: &contract.RegistrarConfigUpdate{TaxRate: &taxRate}}
	for _, s := range senders {
		_, err := s.Execute(ctx, registrar, update, nil)
		if err := ExpectRejected(err); err != nil {
			return sdkerrors.Wrapf(err, "update_config by %s", s)
		}
		h.Logger.Info("update rejected", "sender", s.String())
	}
	return nil
}

// ApplicationApproval submits an endowment application from the pleb wallet and gets it approved and
// executed by the review team.
func ApplicationApproval(ctx context.Context, h *app.Harness) error {
	reviewMultisig, err := h.Book.Address(deploy.ContractReviewTeamMultisig)
	if err != nil {
		return err
	}
	reviewTeam, err := h.Wallets(h.Config.Core.ReviewTeam)
	if err != nil {
		return err
	}
	if len(reviewTeam) == 0 {
		return sdkerrors.Wrap(types.ErrEmpty, "review team")
	}
	applicant, err := h.Wallet(config.RolePleb)
	if err != nil {
		return err
	}
	application := config.EndowmentConfig{
		Name:            "Scenario application",
		Description:     "Endowment applied for through the review team",
		Threshold:       "0.5",
		MaxVotingPeriod: 100,
		EndowmentType:   "Charity",
	}
	if len(h.Config.Endowments) != 0 {
		application = h.Config.Endowments[0]
		application.Name = "Scenario application"
	}
	msg := contract.CW3ExecuteMsg{ProposeApplication: &contract.ProposeApplicationMsg{
		RefID: fmt.Sprintf("scenario-%d", h.Now().Unix()),
		Msg:   *deploy.EndowmentMsg(application, []chain.Wallet{applicant}),
	}}
	p, err := h.CW3.ProposeMsg(ctx, applicant, reviewMultisig, msg, nil)
	if err != nil {
		return err
	}
	if err := h.CW3.VoteApplicationAll(ctx, reviewTeam, reviewMultisig, p.ID, contract.YesVote, "approved by scenario"); err != nil {
		return err
	}
	if _, err := h.CW3.Execute(ctx, reviewTeam[0], reviewMultisig, p.ID); err != nil {
		return err
	}
	state, err := cw3.QueryProposal(ctx, h.Querier, reviewMultisig, p.ID)
	if err != nil {
		return err
	}
	if state.Status != contract.ProposalStatusExecuted {
		return sdkerrors.Wrapf(types.ErrUnexpectedResult, "application %d is %s", p.ID, state.Status)
	}
	h.Logger.Info("application approved", "proposal_id", p.ID)
	return nil
}

// CharityCanWithdrawLocked asks for a withdrawal of locked funds through the endowment multisig.
// The accounts contract forwards it as a proposal to the ap team, which approves and executes it.
func CharityCanWithdrawLocked(ctx context.Context, h *app.Harness) error {
	endowment, err := h.Book.Address(deploy.EndowmentName(EndowmentID))
	if err != nil {
		return sdkerrors.Wrap(err, "run setup_endowments first")
	}
	accounts, err := h.Book.Address(deploy.ContractAccounts)
	if err != nil {
		return err
	}
	if len(h.Config.Endowments) == 0 {
		return sdkerrors.Wrap(types.ErrInvalidConfig, "no endowments")
	}
	members, err := h.Wallets(h.Config.Endowments[0].Members)
	if err != nil {
		return err
	}
	apMultisig, apTeam, err := deploy.ApTeam(h)
	if err != nil {
		return err
	}
	assets, err := sdk.ParseCoinsNormalized(h.Config.Scenario.Withdraw)
	if err != nil {
		return sdkerrors.Wrapf(types.ErrInvalidConfig, "withdraw: %s", err)
	}

	proposer := members[0]
	withdraw := contract.AccountsExecuteMsg{ProposeLockedWithdraw: &contract.ProposeLockedWithdrawMsg{
		ID:          EndowmentID,
		Beneficiary: proposer.Address,
		Description: "Locked withdraw by the charity",
		Assets:      contract.NewCoins(assets),
	}}
	result, err := cw3.Escalate(ctx, h.CW3, cw3.EscalationPlan{
		Title:             "Withdraw locked funds",
		Description:       "Charity requests a locked withdrawal",
		Msgs:              []cw3.SubMsg{{Contract: accounts, Msg: withdraw}},
		EndowmentMultisig: endowment,
		Proposer:          proposer,
		EndowmentVoters:   members[1:],
		ApTeamMultisig:    apMultisig,
		ApTeamVoters:      apTeam,
	})
	if err != nil {
		return err
	}
	h.Logger.Info("locked withdraw executed", "endowment_proposal_id", result.EndowmentProposal.ID,
		"ap_team_proposal_id", result.ApTeamProposalID, "tx", result.Final.TxHash)
	return nil
}
