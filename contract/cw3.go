package contract

import (
	"encoding/json"

	wasmvmtypes "github.com/CosmWasm/wasmvm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/types"
)

type Vote string

const (
	YesVote     Vote = "yes"
	NoVote      Vote = "no"
	AbstainVote Vote = "abstain"
	VetoVote    Vote = "veto"
)

func (v Vote) ValidateBasic() error {
	switch v {
	case YesVote, NoVote, AbstainVote, VetoVote:
		return nil
	case "":
		return sdkerrors.Wrap(types.ErrEmpty, "vote")
	default:
		return sdkerrors.Wrapf(types.ErrInvalidMsg, "vote %q", string(v))
	}
}

type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusOpen     ProposalStatus = "open"
	ProposalStatusRejected ProposalStatus = "rejected"
	ProposalStatusPassed   ProposalStatus = "passed"
	ProposalStatusExecuted ProposalStatus = "executed"
)

// CW3InstantiateMsg instantiates a flex multisig that reads the voter weights from a cw4 group
type CW3InstantiateMsg struct {
	GroupAddr       string    `json:"group_addr"`
	Threshold       Threshold `json:"threshold"`
	MaxVotingPeriod Duration  `json:"max_voting_period"`
	// RegistrarContract is only used by the review team multisig
	RegistrarContract string `json:"registrar_contract,omitempty"`
}

func (m CW3InstantiateMsg) ValidateBasic() error {
	if err := ValidateAddress(m.GroupAddr); err != nil {
		return sdkerrors.Wrap(err, "group addr")
	}
	if err := m.Threshold.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(err, "threshold")
	}
	if err := m.MaxVotingPeriod.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(err, "max voting period")
	}
	return sdkerrors.Wrap(validateOptionalAddress(m.RegistrarContract), "registrar contract")
}

// Threshold cw3 threshold variants
type Threshold struct {
	AbsoluteCount      *AbsoluteCountThreshold      `json:"absolute_count,omitempty"`
	AbsolutePercentage *AbsolutePercentageThreshold `json:"absolute_percentage,omitempty"`
	ThresholdQuorum    *ThresholdQuorum             `json:"threshold_quorum,omitempty"`
}

type AbsoluteCountThreshold struct {
	Weight uint64 `json:"weight"`
}

type AbsolutePercentageThreshold struct {
	Percentage sdk.Dec `json:"percentage"`
}

type ThresholdQuorum struct {
	Threshold sdk.Dec `json:"threshold"`
	Quorum    sdk.Dec `json:"quorum"`
}

// PercentageThreshold returns an absolute percentage threshold
func PercentageThreshold(p sdk.Dec) Threshold {
	return Threshold{AbsolutePercentage: &AbsolutePercentageThreshold{Percentage: p}}
}

func (t Threshold) ValidateBasic() error {
	if err := exactlyOne("threshold", t.AbsoluteCount != nil, t.AbsolutePercentage != nil, t.ThresholdQuorum != nil); err != nil {
		return err
	}
	switch {
	case t.AbsoluteCount != nil:
		if t.AbsoluteCount.Weight == 0 {
			return sdkerrors.Wrap(types.ErrEmpty, "weight")
		}
	case t.AbsolutePercentage != nil:
		if err := validatePercentage("percentage", t.AbsolutePercentage.Percentage); err != nil {
			return err
		}
		if t.AbsolutePercentage.Percentage.IsZero() {
			return sdkerrors.Wrap(types.ErrEmpty, "percentage")
		}
	case t.ThresholdQuorum != nil:
		if err := validatePercentage("threshold", t.ThresholdQuorum.Threshold); err != nil {
			return err
		}
		return validatePercentage("quorum", t.ThresholdQuorum.Quorum)
	}
	return nil
}

// CW3ExecuteMsg covers the ap team, review team and endowment multisigs
type CW3ExecuteMsg struct {
	Propose            *ProposeMsg            `json:"propose,omitempty"`
	ProposeApplication *ProposeApplicationMsg `json:"propose_application,omitempty"`
	Vote               *VoteMsg               `json:"vote,omitempty"`
	VoteApplication    *VoteApplicationMsg    `json:"vote_application,omitempty"`
	Execute            *ProposalID            `json:"execute,omitempty"`
	Close              *ProposalID            `json:"close,omitempty"`
	UpdateConfig       *CW3UpdateConfigMsg    `json:"update_config,omitempty"`
}

func (m CW3ExecuteMsg) ValidateBasic() error {
	if err := exactlyOne("cw3 execute", m.Propose != nil, m.ProposeApplication != nil, m.Vote != nil,
		m.VoteApplication != nil, m.Execute != nil, m.Close != nil, m.UpdateConfig != nil); err != nil {
		return err
	}
	switch {
	case m.Propose != nil:
		return m.Propose.ValidateBasic()
	case m.ProposeApplication != nil:
		return m.ProposeApplication.ValidateBasic()
	case m.Vote != nil:
		return m.Vote.ValidateBasic()
	case m.VoteApplication != nil:
		return m.VoteApplication.ValidateBasic()
	case m.UpdateConfig != nil:
		return m.UpdateConfig.ValidateBasic()
	}
	return nil
}

// ProposeMsg wraps sub messages that are executed together when the proposal is executed
type ProposeMsg struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Msgs        []wasmvmtypes.CosmosMsg `json:"msgs"`
	Latest      *Expiration             `json:"latest,omitempty"`
	Meta        string                  `json:"meta,omitempty"`
}

func (m ProposeMsg) ValidateBasic() error {
	if m.Title == "" {
		return sdkerrors.Wrap(types.ErrEmpty, "title")
	}
	if len(m.Msgs) == 0 {
		return sdkerrors.Wrap(types.ErrEmpty, "msgs")
	}
	for i, msg := range m.Msgs {
		if msg.Wasm == nil && msg.Bank == nil && msg.Custom == nil && msg.Stargate == nil &&
			msg.Staking == nil && msg.Distribution == nil && msg.IBC == nil {
			return sdkerrors.Wrapf(types.ErrEmpty, "msg %d", i)
		}
	}
	return nil
}

// ProposeApplicationMsg submits an endowment application to the review team
type ProposeApplicationMsg struct {
	RefID string             `json:"ref_id"`
	Msg   CreateEndowmentMsg `json:"msg"`
	Meta  string             `json:"meta,omitempty"`
}

func (m ProposeApplicationMsg) ValidateBasic() error {
	if m.RefID == "" {
		return sdkerrors.Wrap(types.ErrEmpty, "ref id")
	}
	return sdkerrors.Wrap(m.Msg.ValidateBasic(), "msg")
}

type VoteMsg struct {
	ProposalID uint64 `json:"proposal_id"`
	Vote       Vote   `json:"vote"`
}

func (m VoteMsg) ValidateBasic() error {
	return m.Vote.ValidateBasic()
}

type VoteApplicationMsg struct {
	ProposalID uint64 `json:"proposal_id"`
	Vote       Vote   `json:"vote"`
	Reason     string `json:"reason,omitempty"`
}

func (m VoteApplicationMsg) ValidateBasic() error {
	return m.Vote.ValidateBasic()
}

type CW3UpdateConfigMsg struct {
	Threshold       Threshold `json:"threshold"`
	MaxVotingPeriod Duration  `json:"max_voting_period"`
}

func (m CW3UpdateConfigMsg) ValidateBasic() error {
	if err := m.Threshold.ValidateBasic(); err != nil {
		return err
	}
	return m.MaxVotingPeriod.ValidateBasic()
}

// NewProposeMsg returns a propose message for the sub messages
func NewProposeMsg(title, description string, msgs ...wasmvmtypes.CosmosMsg) CW3ExecuteMsg {
	return CW3ExecuteMsg{Propose: &ProposeMsg{Title: title, Description: description, Msgs: msgs}}
}

// NewVoteMsg returns a vote message
func NewVoteMsg(proposalID uint64, vote Vote) CW3ExecuteMsg {
	return CW3ExecuteMsg{Vote: &VoteMsg{ProposalID: proposalID, Vote: vote}}
}

// NewVoteApplicationMsg returns a review team vote message
func NewVoteApplicationMsg(proposalID uint64, vote Vote, reason string) CW3ExecuteMsg {
	return CW3ExecuteMsg{VoteApplication: &VoteApplicationMsg{ProposalID: proposalID, Vote: vote, Reason: reason}}
}

// NewExecuteProposalMsg returns an execute message
func NewExecuteProposalMsg(proposalID uint64) CW3ExecuteMsg {
	return CW3ExecuteMsg{Execute: &ProposalID{ProposalID: proposalID}}
}

type CW3Query struct {
	Threshold        *struct{}          `json:"threshold,omitempty"`
	Config           *struct{}          `json:"config,omitempty"`
	Proposal         *ProposalID        `json:"proposal,omitempty"`
	ListProposals    *ListProposalQuery `json:"list_proposals,omitempty"`
	ReverseProposals *ListProposalQuery `json:"reverse_proposals,omitempty"`
	Vote             *VoteQuery         `json:"vote,omitempty"`
	ListVotes        *ListVotesQuery    `json:"list_votes,omitempty"`
	Voter            *VoterQuery        `json:"voter,omitempty"`
	ListVoters       *ListVotersQuery   `json:"list_voters,omitempty"`
}

type ListProposalQuery struct {
	StartAfter uint64 `json:"start_after,omitempty"`
	Limit      uint32 `json:"limit,omitempty"`
}

type VoteQuery struct {
	ProposalID uint64 `json:"proposal_id"`
	Voter      string `json:"voter"`
}

type ListVotesQuery struct {
	ProposalID uint64 `json:"proposal_id"`
	StartAfter string `json:"start_after,omitempty"`
	Limit      uint32 `json:"limit,omitempty"`
}

type VoterQuery struct {
	Address string `json:"address"`
}

type ListVotersQuery struct {
	StartAfter string `json:"start_after,omitempty"`
	Limit      uint32 `json:"limit,omitempty"`
}

type ProposalResponse struct {
	ID          uint64                  `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Msgs        []wasmvmtypes.CosmosMsg `json:"msgs"`
	Status      ProposalStatus          `json:"status"`
	Expires     json.RawMessage         `json:"expires,omitempty"`
	Threshold   json.RawMessage         `json:"threshold,omitempty"`
}

type ProposalListResponse struct {
	Proposals []ProposalResponse `json:"proposals"`
}

type VoteInfo struct {
	Voter  string `json:"voter"`
	Vote   Vote   `json:"vote"`
	Weight uint64 `json:"weight"`
}

type VoteListResponse struct {
	Votes []VoteInfo `json:"votes"`
}

type VoterResponse struct {
	Weight *uint64 `json:"weight"`
}

type VoterDetail struct {
	Addr   string `json:"addr"`
	Weight uint64 `json:"weight"`
}

type VoterListResponse struct {
	Voters []VoterDetail `json:"voters"`
}
