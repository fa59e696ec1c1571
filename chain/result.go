package chain

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/tidwall/gjson"

	"github.com/angelprotocol/harness/types"
)

// TxResult is the part of a broadcast response the harness works with
type TxResult struct {
	Height    int64
	TxHash    string
	Codespace string
	Code      uint32
	RawLog    string
	GasWanted int64
	GasUsed   int64
	Logs      []MsgLog
}

// MsgLog holds the events emitted while processing a single message of the tx
type MsgLog struct {
	MsgIndex uint32
	Events   []Event
}

type Event struct {
	Type       string
	Attributes []Attribute
}

type Attribute struct {
	Key   string
	Value string
}

// NewTxResult converts an sdk tx response
func NewTxResult(rsp *sdk.TxResponse) *TxResult {
	if rsp == nil {
		return nil
	}
	r := &TxResult{
		Height:    rsp.Height,
		TxHash:    rsp.TxHash,
		Codespace: rsp.Codespace,
		Code:      rsp.Code,
		RawLog:    rsp.RawLog,
		GasWanted: rsp.GasWanted,
		GasUsed:   rsp.GasUsed,
		Logs:      make([]MsgLog, len(rsp.Logs)),
	}
	for i, l := range rsp.Logs {
		events := make([]Event, len(l.Events))
		for j, e := range l.Events {
			attrs := make([]Attribute, len(e.Attributes))
			for k, a := range e.Attributes {
				attrs[k] = Attribute{Key: a.Key, Value: a.Value}
			}
			events[j] = Event{Type: e.Type, Attributes: attrs}
		}
		r.Logs[i] = MsgLog{MsgIndex: l.MsgIndex, Events: events}
	}
	return r
}

// ParseTxResult decodes the json output of a `tx ... --output json` command
func ParseTxResult(raw string) (*TxResult, error) {
	if !gjson.Valid(raw) {
		return nil, sdkerrors.Wrapf(types.ErrUnexpectedResult, "not a json tx response: %q", raw)
	}
	rsp := gjson.Parse(raw)
	if !rsp.Get("txhash").Exists() {
		return nil, sdkerrors.Wrapf(types.ErrUnexpectedResult, "no txhash in response: %q", raw)
	}
	r := &TxResult{
		Height:    rsp.Get("height").Int(),
		TxHash:    rsp.Get("txhash").String(),
		Codespace: rsp.Get("codespace").String(),
		Code:      uint32(rsp.Get("code").Uint()),
		RawLog:    rsp.Get("raw_log").String(),
		GasWanted: rsp.Get("gas_wanted").Int(),
		GasUsed:   rsp.Get("gas_used").Int(),
	}
	for _, l := range rsp.Get("logs").Array() {
		msgLog := MsgLog{MsgIndex: uint32(l.Get("msg_index").Uint())}
		for _, e := range l.Get("events").Array() {
			event := Event{Type: e.Get("type").String()}
			for _, a := range e.Get("attributes").Array() {
				event.Attributes = append(event.Attributes, Attribute{
					Key:   a.Get("key").String(),
					Value: a.Get("value").String(),
				})
			}
			msgLog.Events = append(msgLog.Events, event)
		}
		r.Logs = append(r.Logs, msgLog)
	}
	return r, nil
}

// IsOK returns true for a tx that was executed successfully
func (r TxResult) IsOK() bool {
	return r.Code == 0
}

// Err returns the chain side failure as ErrTransaction, nil on success
func (r TxResult) Err() error {
	if r.IsOK() {
		return nil
	}
	return sdkerrors.Wrapf(types.ErrTransaction, "tx %s failed with code %d (%s): %s", r.TxHash, r.Code, r.Codespace, r.RawLog)
}

// Events returns all events of the given type in log order
func (r TxResult) Events(eventType string) []Event {
	var result []Event
	for _, l := range r.Logs {
		for _, e := range l.Events {
			if e.Type == eventType {
				result = append(result, e)
			}
		}
	}
	return result
}

// Attribute returns the value of key in the first event of eventType.
// Only the first matching event is inspected: when a later event of the same type carries the
// key, it is not found.
func (r TxResult) Attribute(eventType, key string) (string, bool) {
	events := r.Events(eventType)
	if len(events) == 0 {
		return "", false
	}
	return events[0].Attribute(key)
}

// RequireAttribute is Attribute with explicit not found errors
func (r TxResult) RequireAttribute(eventType, key string) (string, error) {
	events := r.Events(eventType)
	if len(events) == 0 {
		return "", sdkerrors.Wrapf(types.ErrEventNotFound, "%q in tx %s", eventType, r.TxHash)
	}
	v, ok := events[0].Attribute(key)
	if !ok {
		return "", sdkerrors.Wrapf(types.ErrAttributeNotFound, "%q in event %q of tx %s", key, eventType, r.TxHash)
	}
	return v, nil
}

// ContractEvents returns the events of eventType emitted by the given contract. Flattened events
// that hold attributes of several contracts are split at each `_contract_address` attribute.
func (r TxResult) ContractEvents(eventType, contractAddr string) []Event {
	var result []Event
	for _, e := range r.Events(eventType) {
		for _, s := range e.Segments() {
			if addr, _ := s.Attribute(types.AttributeKeyContractAddr); addr == contractAddr {
				result = append(result, s)
			}
		}
	}
	return result
}

// ContractAttribute returns the value of key emitted by the given contract
func (r TxResult) ContractAttribute(eventType, contractAddr, key string) (string, bool) {
	for _, e := range r.ContractEvents(eventType, contractAddr) {
		if v, ok := e.Attribute(key); ok {
			return v, true
		}
	}
	return "", false
}

// Attribute returns the first value for the key
func (e Event) Attribute(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Segments splits the event into one event per emitting contract. The sdk flattens events of the
// same type within a message log, so a single `wasm` event can hold the attributes of every
// contract called. Attributes before the first contract address form their own segment.
func (e Event) Segments() []Event {
	var result []Event
	current := Event{Type: e.Type}
	for _, a := range e.Attributes {
		if a.Key == types.AttributeKeyContractAddr && len(current.Attributes) != 0 {
			result = append(result, current)
			current = Event{Type: e.Type}
		}
		current.Attributes = append(current.Attributes, a)
	}
	if len(current.Attributes) != 0 {
		result = append(result, current)
	}
	return result
}
