package deploytesting

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
	dbm "github.com/tendermint/tm-db"
	"github.com/tidwall/gjson"

	"github.com/angelprotocol/harness/app"
	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/chain/chaintesting"
	"github.com/angelprotocol/harness/config"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/cw3/cw3testing"
	"github.com/angelprotocol/harness/deploy"
	"github.com/angelprotocol/harness/store"
)

// Now is the clock of harnesses returned by Network.Harness
var Now = time.Date(2022, 4, 15, 12, 0, 0, 0, time.UTC)

// Network is a mock chain that gives the contracts of the setup steps their behaviour. Contracts
// are told apart by their instantiate label, which is the address book name.
type Network struct {
	Chain    *cw3testing.MockChain
	Accounts *cw3testing.MockAccounts
	// Multisigs by address book name
	Multisigs map[string]*cw3testing.MockMultisig
	// Owned are the owner gated contracts by address book name
	Owned map[string]*MockOwned
	// Factories are the swap and lbp factories by address book name
	Factories map[string]*MockFactory
	// Endowments are the endowment multisigs in creation order
	Endowments []*cw3testing.MockMultisig
	groups     map[string][]contract.Member
}

func NewNetwork() *Network {
	n := &Network{
		Chain:     cw3testing.NewMockChain(),
		Multisigs: make(map[string]*cw3testing.MockMultisig),
		Owned:     make(map[string]*MockOwned),
		Factories: make(map[string]*MockFactory),
		groups:    make(map[string][]contract.Member),
	}
	n.Chain.ContractFactory = n.contractFor
	return n
}

func (n *Network) contractFor(init cw3testing.ContractInit) cw3testing.MockContract {
	switch init.Label {
	case deploy.ContractAccounts:
		n.Accounts = cw3testing.NewMockAccounts(init.Addr, "")
		n.Accounts.MultisigFactory = n.endowmentMultisig
		if ap, ok := n.Multisigs[deploy.ContractApTeamMultisig]; ok {
			n.Accounts.ApTeamMultisig = ap.Addr
			ap.Proposers[init.Addr] = true
		}
		return n.Accounts
	case deploy.ContractRegistrar:
		return n.owned(init, init.Sender)
	case deploy.ContractIndexFund:
		return n.owned(init, init.Sender, "deposit")
	case deploy.ContractApTeamGroup, deploy.ContractReviewTeamGroup:
		var msg contract.CW4InstantiateMsg
		mustUnmarshal(init.Msg, &msg)
		n.groups[init.Addr] = msg.Members
		return n.owned(init, msg.Admin)
	case deploy.ContractApTeamMultisig, deploy.ContractReviewTeamMultisig:
		var msg contract.CW3InstantiateMsg
		mustUnmarshal(init.Msg, &msg)
		var offset uint64
		if init.Label == deploy.ContractApTeamMultisig {
			offset = cw3testing.ApTeamProposalIDOffset
		}
		m := cw3testing.NewMockMultisig(init.Addr, n.groups[msg.GroupAddr], msg.Threshold.AbsolutePercentage.Percentage, offset)
		switch {
		case init.Label == deploy.ContractReviewTeamMultisig && n.Accounts != nil:
			m.ApplicationTarget = n.Accounts.Addr
		case init.Label == deploy.ContractApTeamMultisig && n.Accounts != nil:
			n.Accounts.ApTeamMultisig = init.Addr
			m.Proposers[n.Accounts.Addr] = true
		}
		n.Multisigs[init.Label] = m
		return m
	case deploy.ContractDexFactory, deploy.ContractLbpFactory:
		f := &MockFactory{Addr: init.Addr}
		n.Factories[init.Label] = f
		return f
	}
	return nil
}

func (n *Network) owned(init cw3testing.ContractInit, owner string, public ...string) *MockOwned {
	o := NewMockOwned(init.Addr, owner, public...)
	n.Owned[init.Label] = o
	return o
}

// endowmentMultisig creates the multisig of a new endowment
func (n *Network) endowmentMultisig(c *cw3testing.MockChain, msg contract.CreateEndowmentMsg) string {
	m := cw3testing.NewMockMultisig(contract.RandomAddress(), msg.CW4Members, msg.CW3Threshold.AbsolutePercentage.Percentage, 0)
	c.Register(m.Addr, m)
	n.Endowments = append(n.Endowments, m)
	return m.Addr
}

// Harness returns a localterra harness on this network with a wallet for every role and a fake
// wasm file for every artifact. A money market is recorded so that vaults are deployed.
func (n *Network) Harness(t testing.TB, mutators ...func(*config.Config)) *app.Harness {
	t.Helper()
	cfg, err := config.Default(config.LocalTerra)
	require.NoError(t, err)
	cfg.ArtifactsDir = t.TempDir()
	for _, m := range mutators {
		m(&cfg)
	}
	for _, f := range deploy.Artifacts(cfg.Dex.Kind) {
		require.NoError(t, ioutil.WriteFile(filepath.Join(cfg.ArtifactsDir, f), []byte("wasm "+f), 0o600))
	}
	wallets := make(map[config.Role]chain.Wallet)
	for _, role := range cfg.Roles() {
		wallets[role] = chain.NewWallet(string(role), contract.RandomAddress(), n.Chain)
	}
	book := store.NewAddressBook(dbm.NewMemDB(), string(cfg.Network))
	require.NoError(t, book.SetAddress(deploy.ContractMoneyMarket, contract.RandomAddress()))
	h := app.NewHarness(cfg, log.NewNopLogger(), n.Chain, book, store.NewEndowmentList(t.TempDir()), wallets)
	h.Now = func() time.Time { return Now }
	return h
}

// Multisig returns the multisig deployed under the name
func (n *Network) Multisig(t testing.TB, name string) *cw3testing.MockMultisig {
	t.Helper()
	m, ok := n.Multisigs[name]
	require.True(t, ok, "multisig %s not deployed", name)
	return m
}

// MockOwned accepts every message from its owner. update_owner and update_admin hand it over.
// Messages listed as public are accepted from anybody.
type MockOwned struct {
	Addr   string
	Owner  string
	Public map[string]bool
	// Msgs accepted, in order
	Msgs []json.RawMessage
	// Senders of the accepted messages
	Senders []string
}

func NewMockOwned(addr, owner string, public ...string) *MockOwned {
	o := &MockOwned{Addr: addr, Owner: owner, Public: make(map[string]bool, len(public))}
	for _, p := range public {
		o.Public[p] = true
	}
	return o
}

func (o *MockOwned) Execute(c *cw3testing.MockChain, sender string, msg []byte, funds sdk.Coins) ([]chain.Event, error) {
	action, err := topLevelKey(msg)
	if err != nil {
		return nil, err
	}
	if !o.Public[action] && sender != o.Owner {
		return nil, cw3testing.ErrUnauthorized
	}
	switch action {
	case "update_owner":
		o.Owner = gjson.GetBytes(msg, "update_owner.new_owner").String()
	case "update_admin":
		o.Owner = gjson.GetBytes(msg, "update_admin.admin").String()
	}
	o.Msgs = append(o.Msgs, msg)
	o.Senders = append(o.Senders, sender)
	return []chain.Event{chaintesting.WasmEvent(o.Addr, "action", action, "sender", sender)}, nil
}

// Executed returns the accepted messages with the given top level key
func (o *MockOwned) Executed(action string) []json.RawMessage {
	var r []json.RawMessage
	for _, m := range o.Msgs {
		if k, _ := topLevelKey(m); k == action {
			r = append(r, m)
		}
	}
	return r
}

// MockFactory creates a pair and its liquidity token on create_pair
type MockFactory struct {
	Addr  string
	Pairs []contract.PairInfo
	// CreateMsgs are the create_pair payloads, in order
	CreateMsgs []json.RawMessage
}

func (f *MockFactory) Execute(c *cw3testing.MockChain, sender string, msg []byte, funds sdk.Coins) ([]chain.Event, error) {
	create := gjson.GetBytes(msg, "create_pair")
	if !create.Exists() {
		return nil, fmt.Errorf("unsupported message")
	}
	pair := contract.PairInfo{ContractAddr: contract.RandomAddress(), LiquidityToken: contract.RandomAddress()}
	c.Register(pair.ContractAddr, &cw3testing.Recorder{})
	c.Register(pair.LiquidityToken, &cw3testing.Recorder{})
	f.Pairs = append(f.Pairs, pair)
	f.CreateMsgs = append(f.CreateMsgs, json.RawMessage(create.Raw))
	return []chain.Event{chaintesting.WasmEvent(f.Addr,
		"action", "create_pair",
		"pair_contract_addr", pair.ContractAddr,
		"liquidity_token_addr", pair.LiquidityToken,
	)}, nil
}

func topLevelKey(msg []byte) (string, error) {
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(msg, &parsed); err != nil {
		return "", err
	}
	if len(parsed) != 1 {
		return "", fmt.Errorf("expected exactly one message variant, got %d", len(parsed))
	}
	for k := range parsed {
		return k, nil
	}
	return "", nil
}

func mustUnmarshal(bz []byte, v interface{}) {
	if err := json.Unmarshal(bz, v); err != nil {
		panic(err)
	}
}
