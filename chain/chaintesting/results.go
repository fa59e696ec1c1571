package chaintesting

import (
	"github.com/tendermint/tendermint/libs/rand"

	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/types"
)

// TxResultFixture returns a successful single message result with the given events
func TxResultFixture(events ...chain.Event) *chain.TxResult {
	return &chain.TxResult{
		Height: 1,
		TxHash: rand.Str(64),
		Logs:   []chain.MsgLog{{Events: events}},
	}
}

// FailedTxResultFixture returns a result with a non zero code
func FailedTxResultFixture(code uint32, rawLog string) *chain.TxResult {
	return &chain.TxResult{
		Height:    1,
		TxHash:    rand.Str(64),
		Codespace: "wasm",
		Code:      code,
		RawLog:    rawLog,
	}
}

// WasmEvent builds a wasm event for the contract. kv are key value pairs
func WasmEvent(contractAddr string, kv ...string) chain.Event {
	return Event(types.EventTypeWasm, append([]string{types.AttributeKeyContractAddr, contractAddr}, kv...)...)
}

// Event builds an event of any type. kv are key value pairs
func Event(eventType string, kv ...string) chain.Event {
	if len(kv)%2 != 0 {
		panic("odd number of key value elements")
	}
	e := chain.Event{Type: eventType}
	for i := 0; i < len(kv); i += 2 {
		e.Attributes = append(e.Attributes, chain.Attribute{Key: kv[i], Value: kv[i+1]})
	}
	return e
}

// Flatten merges all events of the same type into one, the way the sdk aggregates them in a message log
func Flatten(events ...chain.Event) []chain.Event {
	var result []chain.Event
	index := make(map[string]int)
	for _, e := range events {
		i, ok := index[e.Type]
		if !ok {
			index[e.Type] = len(result)
			result = append(result, chain.Event{Type: e.Type, Attributes: append([]chain.Attribute{}, e.Attributes...)})
			continue
		}
		result[i].Attributes = append(result[i].Attributes, e.Attributes...)
	}
	return result
}
