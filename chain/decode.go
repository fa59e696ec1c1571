package chain

import (
	"strconv"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/types"
)

// AnyAttribute returns the first value of key found in any event, in log order
func (r TxResult) AnyAttribute(key string) (string, bool) {
	for _, l := range r.Logs {
		for _, e := range l.Events {
			if v, ok := e.Attribute(key); ok {
				return v, true
			}
		}
	}
	return "", false
}

// DecodeStoreCode returns the code id of an uploaded wasm code
func DecodeStoreCode(r *TxResult) (uint64, error) {
	if err := r.Err(); err != nil {
		return 0, err
	}
	v, ok := r.Attribute(types.EventTypeStoreCode, types.AttributeKeyCodeID)
	if !ok {
		if v, ok = r.AnyAttribute(types.AttributeKeyCodeID); !ok {
			return 0, sdkerrors.Wrapf(types.ErrAttributeNotFound, "code id in tx %s", r.TxHash)
		}
	}
	codeID, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, sdkerrors.Wrapf(types.ErrUnexpectedResult, "code id %q", v)
	}
	return codeID, nil
}

// DecodeInstantiate returns the address of a new contract instance
func DecodeInstantiate(r *TxResult) (string, error) {
	if err := r.Err(); err != nil {
		return "", err
	}
	addr, ok := r.Attribute(types.EventTypeInstantiate, types.AttributeKeyContractAddr)
	if !ok {
		if addr, ok = r.AnyAttribute(types.AttributeKeyContractAddr); !ok {
			return "", sdkerrors.Wrapf(types.ErrAttributeNotFound, "contract address in tx %s", r.TxHash)
		}
	}
	return addr, nil
}

// InstantiatedContracts returns all contract addresses created in the tx in order
func InstantiatedContracts(r *TxResult) []string {
	var result []string
	for _, e := range r.Events(types.EventTypeInstantiate) {
		for _, a := range e.Attributes {
			if a.Key == types.AttributeKeyContractAddr {
				result = append(result, a.Value)
			}
		}
	}
	return result
}
