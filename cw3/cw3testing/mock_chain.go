package cw3testing

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	wasmvmtypes "github.com/CosmWasm/wasmvm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/chain/chaintesting"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/types"
)

// MockContract handles executions dispatched by the MockChain
type MockContract interface {
	Execute(c *MockChain, sender string, msg []byte, funds sdk.Coins) ([]chain.Event, error)
}

// MockQuerier is implemented by contracts that answer smart queries
type MockQuerier interface {
	Query(msg []byte) ([]byte, error)
}

// ExecutedMsg is a record of an execution, top level or dispatched by a contract
type ExecutedMsg struct {
	Sender   string
	Contract string
	Msg      []byte
	Funds    sdk.Coins
}

var _ chain.Client = &MockChain{}

// MockChain is an in memory chain.Client. Top level and dispatched sub messages are executed
// recursively and their wasm events are flattened the way the sdk does.
type MockChain struct {
	contracts  map[string]MockContract
	admins     map[string]string
	codes      map[uint64][]byte
	Executed   []ExecutedMsg
	BankSends  []wasmvmtypes.SendMsg
	Migrations []ExecutedMsg
	Balances   map[string]sdk.Coins
	nextCodeID uint64
	height     int64
	// ContractFactory returns the behaviour of a newly instantiated contract. Nil registers a Recorder.
	ContractFactory func(init ContractInit) MockContract
}

// ContractInit describes a contract being instantiated
type ContractInit struct {
	CodeID uint64
	Addr   string
	Sender string
	Label  string
	Msg    []byte
}

func NewMockChain() *MockChain {
	return &MockChain{
		contracts:  make(map[string]MockContract),
		admins:     make(map[string]string),
		codes:      make(map[uint64][]byte),
		Balances:   make(map[string]sdk.Coins),
		nextCodeID: 1,
	}
}

// Register adds a contract at the address
func (c *MockChain) Register(addr string, mc MockContract) {
	c.contracts[addr] = mc
}

// Contract returns the contract at the address
func (c *MockChain) Contract(addr string) (MockContract, bool) {
	mc, ok := c.contracts[addr]
	return mc, ok
}

// Admin returns the wasm admin of the contract
func (c *MockChain) Admin(addr string) string {
	return c.admins[addr]
}

func (c *MockChain) Execute(ctx context.Context, sender, contractAddr string, msg []byte, funds sdk.Coins) (*chain.TxResult, error) {
	events, err := c.Dispatch(sender, contractAddr, msg, funds)
	return c.result(events, err)
}

// Dispatch executes msg on the contract and returns the emitted events
func (c *MockChain) Dispatch(sender, contractAddr string, msg []byte, funds sdk.Coins) ([]chain.Event, error) {
	mc, ok := c.contracts[contractAddr]
	if !ok {
		return nil, fmt.Errorf("contract %s: not found", contractAddr)
	}
	if !json.Valid(msg) {
		return nil, fmt.Errorf("error parsing into type: invalid json")
	}
	c.Executed = append(c.Executed, ExecutedMsg{Sender: sender, Contract: contractAddr, Msg: msg, Funds: funds})
	return mc.Execute(c, sender, msg, funds)
}

// DispatchCosmosMsgs runs the sub messages of a contract in order
func (c *MockChain) DispatchCosmosMsgs(sender string, msgs []wasmvmtypes.CosmosMsg) ([]chain.Event, error) {
	var events []chain.Event
	for i, m := range msgs {
		switch {
		case m.Wasm != nil && m.Wasm.Execute != nil:
			funds, err := toSDKCoins(m.Wasm.Execute.Funds)
			if err != nil {
				return nil, err
			}
			e, err := c.Dispatch(sender, m.Wasm.Execute.ContractAddr, m.Wasm.Execute.Msg, funds)
			if err != nil {
				return nil, fmt.Errorf("sub message %d: %w", i, err)
			}
			events = append(events, e...)
		case m.Bank != nil && m.Bank.Send != nil:
			c.BankSends = append(c.BankSends, *m.Bank.Send)
			events = append(events, chaintesting.Event("transfer", "recipient", m.Bank.Send.ToAddress, "sender", sender))
		default:
			return nil, fmt.Errorf("sub message %d: unsupported", i)
		}
	}
	return events, nil
}

func (c *MockChain) StoreCode(ctx context.Context, sender string, wasmCode []byte) (*chain.TxResult, error) {
	if len(wasmCode) == 0 {
		return c.result(nil, fmt.Errorf("empty wasm code"))
	}
	id := c.nextCodeID
	c.nextCodeID++
	c.codes[id] = wasmCode
	return c.result([]chain.Event{
		chaintesting.Event(types.EventTypeMessage, "module", "wasm", "sender", sender),
		chaintesting.Event(types.EventTypeStoreCode, types.AttributeKeyCodeID, strconv.FormatUint(id, 10)),
	}, nil)
}

func (c *MockChain) Instantiate(ctx context.Context, sender string, req chain.InstantiateRequest) (*chain.TxResult, error) {
	if _, ok := c.codes[req.CodeID]; !ok {
		return c.result(nil, fmt.Errorf("code id %d: not found", req.CodeID))
	}
	if !json.Valid(req.Msg) {
		return c.result(nil, fmt.Errorf("error parsing into type: invalid json"))
	}
	addr := contract.RandomAddress()
	var mc MockContract = &Recorder{}
	if c.ContractFactory != nil {
		init := ContractInit{CodeID: req.CodeID, Addr: addr, Sender: sender, Label: req.Label, Msg: req.Msg}
		if f := c.ContractFactory(init); f != nil {
			mc = f
		}
	}
	c.contracts[addr] = mc
	c.admins[addr] = req.Admin
	return c.result([]chain.Event{
		chaintesting.Event(types.EventTypeInstantiate, types.AttributeKeyContractAddr, addr, types.AttributeKeyCodeID, strconv.FormatUint(req.CodeID, 10)),
		chaintesting.WasmEvent(addr, "action", "instantiate"),
	}, nil)
}

func (c *MockChain) Migrate(ctx context.Context, sender, contractAddr string, codeID uint64, msg []byte) (*chain.TxResult, error) {
	if _, ok := c.contracts[contractAddr]; !ok {
		return c.result(nil, fmt.Errorf("contract %s: not found", contractAddr))
	}
	if c.admins[contractAddr] != sender {
		return c.result(nil, fmt.Errorf("unauthorized: caller is not the admin"))
	}
	if _, ok := c.codes[codeID]; !ok {
		return c.result(nil, fmt.Errorf("code id %d: not found", codeID))
	}
	c.Migrations = append(c.Migrations, ExecutedMsg{Sender: sender, Contract: contractAddr, Msg: msg})
	return c.result([]chain.Event{
		chaintesting.Event(types.EventTypeMigrate, types.AttributeKeyContractAddr, contractAddr, types.AttributeKeyCodeID, strconv.FormatUint(codeID, 10)),
	}, nil)
}

func (c *MockChain) UpdateAdmin(ctx context.Context, sender, contractAddr, newAdmin string) (*chain.TxResult, error) {
	if _, ok := c.contracts[contractAddr]; !ok {
		return c.result(nil, fmt.Errorf("contract %s: not found", contractAddr))
	}
	if c.admins[contractAddr] != sender {
		return c.result(nil, fmt.Errorf("unauthorized: caller is not the admin"))
	}
	c.admins[contractAddr] = newAdmin
	return c.result([]chain.Event{
		chaintesting.Event("update_contract_admin", types.AttributeKeyContractAddr, contractAddr, "new_admin_address", newAdmin),
	}, nil)
}

func (c *MockChain) QuerySmart(ctx context.Context, contractAddr string, query []byte) ([]byte, error) {
	mc, ok := c.contracts[contractAddr]
	if !ok {
		return nil, fmt.Errorf("contract %s: not found", contractAddr)
	}
	q, ok := mc.(MockQuerier)
	if !ok {
		return nil, fmt.Errorf("contract %s: queries not supported", contractAddr)
	}
	return q.Query(query)
}

func (c *MockChain) Balance(ctx context.Context, addr, denom string) (sdk.Coin, error) {
	return sdk.NewCoin(denom, c.Balances[addr].AmountOf(denom)), nil
}

func (c *MockChain) result(events []chain.Event, err error) (*chain.TxResult, error) {
	c.height++
	if err != nil {
		r := chaintesting.FailedTxResultFixture(5, fmt.Sprintf("failed to execute message; message index: 0: %s: execute wasm contract failed", err))
		r.Height = c.height
		return r, r.Err()
	}
	r := chaintesting.TxResultFixture(chaintesting.Flatten(events...)...)
	r.Height = c.height
	return r, nil
}

func toSDKCoins(src wasmvmtypes.Coins) (sdk.Coins, error) {
	var r sdk.Coins
	for _, c := range src {
		amount, ok := sdk.NewIntFromString(c.Amount)
		if !ok {
			return nil, fmt.Errorf("invalid amount %q", c.Amount)
		}
		r = r.Add(sdk.NewCoin(c.Denom, amount))
	}
	return r, nil
}

// Recorder accepts any message and emits the top level message key as action
type Recorder struct {
	Msgs []json.RawMessage
	// QueryResponse is returned for every smart query
	QueryResponse []byte
}

func (r *Recorder) Execute(c *MockChain, sender string, msg []byte, funds sdk.Coins) ([]chain.Event, error) {
	r.Msgs = append(r.Msgs, msg)
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(msg, &parsed); err != nil {
		return nil, err
	}
	action := "unknown"
	for k := range parsed {
		action = k
	}
	return []chain.Event{chaintesting.WasmEvent(contractAddrOf(c, r), "action", action)}, nil
}

func (r *Recorder) Query(msg []byte) ([]byte, error) {
	if r.QueryResponse == nil {
		return []byte(`{}`), nil
	}
	return r.QueryResponse, nil
}

func contractAddrOf(c *MockChain, mc MockContract) string {
	for addr, v := range c.contracts {
		if v == mc {
			return addr
		}
	}
	return ""
}
