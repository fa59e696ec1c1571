package cw3testing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	wasmvmtypes "github.com/CosmWasm/wasmvm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/chain/chaintesting"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/types"
)

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotPassed        = errors.New("proposal not passed")
	ErrAlreadyExecuted  = errors.New("proposal already executed")
	ErrAlreadyVoted     = errors.New("already voted on this proposal")
	ErrProposalNotFound = errors.New("proposal not found")
	ErrNotOpen          = errors.New("proposal is not open")
)

// VoteRecord a vote as seen by the multisig
type VoteRecord struct {
	ProposalID uint64
	Voter      string
	Vote       contract.Vote
}

// MockMultisig is a cw3 flex multisig with an absolute percentage threshold. The proposer votes yes
// with the proposal. A proposal that passes on creation is executed in the same tx; proposals that
// pass by a later vote need an explicit execute.
type MockMultisig struct {
	Addr      string
	Members   map[string]uint64
	Threshold sdk.Dec
	// Proposers that are not members but may create proposals, like the accounts contract
	Proposers map[string]bool
	// ApplicationTarget receives create_endowment when an application proposal is executed.
	// Empty rejects applications.
	ApplicationTarget string
	Votes             []VoteRecord
	// Executions counts successful executions per proposal
	Executions map[uint64]int
	proposals  map[uint64]*mockProposal
	lastID     uint64
}

type mockProposal struct {
	id     uint64
	title  string
	msgs   []wasmvmtypes.CosmosMsg
	status contract.ProposalStatus
	yes    uint64
	voters map[string]bool
}

// NewMockMultisig returns a multisig. Proposal ids start after idOffset.
func NewMockMultisig(addr string, members []contract.Member, threshold sdk.Dec, idOffset uint64) *MockMultisig {
	m := &MockMultisig{
		Addr:       addr,
		Members:    make(map[string]uint64, len(members)),
		Threshold:  threshold,
		Proposers:  make(map[string]bool),
		Executions: make(map[uint64]int),
		proposals:  make(map[uint64]*mockProposal),
		lastID:     idOffset,
	}
	for _, mem := range members {
		m.Members[mem.Addr] = mem.Weight
	}
	return m
}

func (m *MockMultisig) Execute(c *MockChain, sender string, msg []byte, funds sdk.Coins) ([]chain.Event, error) {
	var parsed contract.CW3ExecuteMsg
	if err := json.Unmarshal(msg, &parsed); err != nil {
		return nil, err
	}
	if err := parsed.ValidateBasic(); err != nil {
		return nil, err
	}
	switch {
	case parsed.Propose != nil:
		return m.propose(c, sender, *parsed.Propose)
	case parsed.ProposeApplication != nil:
		return m.proposeApplication(c, sender, *parsed.ProposeApplication)
	case parsed.Vote != nil:
		return m.vote(sender, parsed.Vote.ProposalID, parsed.Vote.Vote)
	case parsed.VoteApplication != nil:
		return m.vote(sender, parsed.VoteApplication.ProposalID, parsed.VoteApplication.Vote)
	case parsed.Execute != nil:
		return m.execute(c, sender, parsed.Execute.ProposalID)
	default:
		return nil, fmt.Errorf("unsupported message")
	}
}

func (m *MockMultisig) propose(c *MockChain, sender string, msg contract.ProposeMsg) ([]chain.Event, error) {
	weight, isMember := m.Members[sender]
	if !isMember && !m.Proposers[sender] {
		return nil, ErrUnauthorized
	}
	m.lastID++
	p := &mockProposal{
		id:     m.lastID,
		title:  msg.Title,
		msgs:   msg.Msgs,
		status: contract.ProposalStatusOpen,
		voters: make(map[string]bool),
	}
	if isMember {
		p.voters[sender] = true
		p.yes = weight
		m.Votes = append(m.Votes, VoteRecord{ProposalID: p.id, Voter: sender, Vote: contract.YesVote})
	}
	m.proposals[p.id] = p
	var subEvents []chain.Event
	autoExecuted := false
	if m.passed(p) {
		p.status = contract.ProposalStatusPassed
		events, err := c.DispatchCosmosMsgs(m.Addr, p.msgs)
		if err != nil {
			m.revertProposal(p.id, isMember)
			return nil, err
		}
		subEvents = events
		p.status = contract.ProposalStatusExecuted
		m.Executions[p.id]++
		autoExecuted = true
	}
	return append([]chain.Event{chaintesting.WasmEvent(m.Addr,
		"action", "propose",
		"sender", sender,
		types.AttributeKeyProposalID, strconv.FormatUint(p.id, 10),
		types.AttributeKeyStatus, string(p.status),
		types.AttributeKeyAutoExecuted, strconv.FormatBool(autoExecuted),
	)}, subEvents...), nil
}

// proposeApplication opens a proposal to create the endowment. Anybody can apply; the applicant
// does not vote.
func (m *MockMultisig) proposeApplication(c *MockChain, sender string, msg contract.ProposeApplicationMsg) ([]chain.Event, error) {
	if m.ApplicationTarget == "" {
		return nil, fmt.Errorf("applications not supported")
	}
	sub, err := contract.ExecuteCosmosMsg(m.ApplicationTarget, contract.AccountsExecuteMsg{CreateEndowment: &msg.Msg}, nil)
	if err != nil {
		return nil, err
	}
	m.lastID++
	m.proposals[m.lastID] = &mockProposal{
		id:     m.lastID,
		title:  "Application " + msg.RefID,
		msgs:   []wasmvmtypes.CosmosMsg{sub},
		status: contract.ProposalStatusOpen,
		voters: make(map[string]bool),
	}
	return []chain.Event{chaintesting.WasmEvent(m.Addr,
		"action", "propose_application",
		"sender", sender,
		types.AttributeKeyProposalID, strconv.FormatUint(m.lastID, 10),
		types.AttributeKeyStatus, string(contract.ProposalStatusOpen),
		types.AttributeKeyAutoExecuted, "false",
	)}, nil
}

// revertProposal drops a proposal whose creating tx failed
func (m *MockMultisig) revertProposal(id uint64, voted bool) {
	delete(m.proposals, id)
	m.lastID--
	if voted {
		m.Votes = m.Votes[:len(m.Votes)-1]
	}
}

func (m *MockMultisig) vote(sender string, id uint64, vote contract.Vote) ([]chain.Event, error) {
	weight, ok := m.Members[sender]
	if !ok {
		return nil, ErrUnauthorized
	}
	p, ok := m.proposals[id]
	if !ok {
		return nil, ErrProposalNotFound
	}
	if p.status != contract.ProposalStatusOpen && p.status != contract.ProposalStatusPassed {
		return nil, ErrNotOpen
	}
	if p.voters[sender] {
		return nil, ErrAlreadyVoted
	}
	p.voters[sender] = true
	m.Votes = append(m.Votes, VoteRecord{ProposalID: id, Voter: sender, Vote: vote})
	if vote == contract.YesVote {
		p.yes += weight
	}
	if p.status == contract.ProposalStatusOpen && m.passed(p) {
		p.status = contract.ProposalStatusPassed
	}
	return []chain.Event{chaintesting.WasmEvent(m.Addr,
		"action", "vote",
		"sender", sender,
		types.AttributeKeyProposalID, strconv.FormatUint(id, 10),
		types.AttributeKeyStatus, string(p.status),
	)}, nil
}

func (m *MockMultisig) execute(c *MockChain, sender string, id uint64) ([]chain.Event, error) {
	p, ok := m.proposals[id]
	if !ok {
		return nil, ErrProposalNotFound
	}
	switch p.status {
	case contract.ProposalStatusExecuted:
		return nil, ErrAlreadyExecuted
	case contract.ProposalStatusPassed:
	default:
		return nil, ErrNotPassed
	}
	events, err := c.DispatchCosmosMsgs(m.Addr, p.msgs)
	if err != nil {
		return nil, err
	}
	p.status = contract.ProposalStatusExecuted
	m.Executions[id]++
	return append([]chain.Event{chaintesting.WasmEvent(m.Addr,
		"action", "execute",
		"sender", sender,
		types.AttributeKeyProposalID, strconv.FormatUint(id, 10),
	)}, events...), nil
}

func (m *MockMultisig) passed(p *mockProposal) bool {
	var total uint64
	for _, w := range m.Members {
		total += w
	}
	if total == 0 {
		return false
	}
	return sdk.NewDec(int64(p.yes)).QuoInt64(int64(total)).GTE(m.Threshold)
}

// Status returns the proposal status
func (m *MockMultisig) Status(id uint64) contract.ProposalStatus {
	if p, ok := m.proposals[id]; ok {
		return p.status
	}
	return ""
}

// LastProposalID returns the id of the latest proposal
func (m *MockMultisig) LastProposalID() uint64 {
	return m.lastID
}

// VotersOf returns the voters of a proposal in voting order
func (m *MockMultisig) VotersOf(id uint64) []string {
	var r []string
	for _, v := range m.Votes {
		if v.ProposalID == id {
			r = append(r, v.Voter)
		}
	}
	return r
}

func (m *MockMultisig) Query(msg []byte) ([]byte, error) {
	var q contract.CW3Query
	if err := json.Unmarshal(msg, &q); err != nil {
		return nil, err
	}
	if q.Proposal == nil {
		return nil, fmt.Errorf("unsupported query")
	}
	p, ok := m.proposals[q.Proposal.ProposalID]
	if !ok {
		return nil, ErrProposalNotFound
	}
	return json.Marshal(contract.ProposalResponse{ID: p.id, Title: p.title, Msgs: p.msgs, Status: p.status})
}
