package contract

import (
	"encoding/json"

	wasmvmtypes "github.com/CosmWasm/wasmvm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/types"
)

// EmptyMsg is the json `{}`
type EmptyMsg struct{}

type ProposalID struct {
	ProposalID uint64 `json:"proposal_id"`
}

// ValidateAddress checks for a valid bech32 account address of any prefix
func ValidateAddress(addr string) error {
	if addr == "" {
		return sdkerrors.Wrap(types.ErrEmpty, "address")
	}
	if _, bz, err := bech32.DecodeAndConvert(addr); err != nil {
		return sdkerrors.Wrapf(types.ErrInvalidMsg, "address %q: %s", addr, err)
	} else if err := sdk.VerifyAddressFormat(bz); err != nil {
		return sdkerrors.Wrapf(types.ErrInvalidMsg, "address %q: %s", addr, err)
	}
	return nil
}

// validateOptionalAddress is ValidateAddress that accepts an empty string
func validateOptionalAddress(addr string) error {
	if addr == "" {
		return nil
	}
	return ValidateAddress(addr)
}

// Coin is the cosmwasm json representation of a coin with the amount as string
type Coin = wasmvmtypes.Coin

// NewCoins converts sdk coins into the cosmwasm representation
func NewCoins(c sdk.Coins) wasmvmtypes.Coins {
	if c.Empty() {
		return wasmvmtypes.Coins{}
	}
	r := make(wasmvmtypes.Coins, len(c))
	for i, v := range c {
		r[i] = wasmvmtypes.Coin{Denom: v.Denom, Amount: v.Amount.String()}
	}
	return r
}

// Percentage is a decimal fraction serialized as string, "0.5" is 50%
type Percentage = sdk.Dec

func validatePercentage(name string, p sdk.Dec) error {
	if p.IsNil() {
		return sdkerrors.Wrap(types.ErrEmpty, name)
	}
	if p.IsNegative() || p.GT(sdk.OneDec()) {
		return sdkerrors.Wrapf(types.ErrInvalidMsg, "%s must be within 0 and 1: %s", name, p)
	}
	return nil
}

// Duration is the cw-utils duration: either height or time in seconds
type Duration struct {
	Height *uint64 `json:"height,omitempty"`
	Time   *uint64 `json:"time,omitempty"`
}

// TimeDuration returns a duration in seconds
func TimeDuration(seconds uint64) Duration {
	return Duration{Time: &seconds}
}

// HeightDuration returns a duration in blocks
func HeightDuration(blocks uint64) Duration {
	return Duration{Height: &blocks}
}

func (d Duration) ValidateBasic() error {
	switch {
	case d.Height != nil && d.Time != nil:
		return sdkerrors.Wrap(types.ErrInvalidMsg, "duration: height and time set")
	case d.Height != nil && *d.Height == 0, d.Time != nil && *d.Time == 0:
		return sdkerrors.Wrap(types.ErrEmpty, "duration")
	case d.Height == nil && d.Time == nil:
		return sdkerrors.Wrap(types.ErrEmpty, "duration")
	}
	return nil
}

// Expiration is the cw-utils expiration, exactly one field set
type Expiration struct {
	AtHeight *uint64 `json:"at_height,omitempty"`
	// AtTime nanoseconds since epoch as string
	AtTime *string   `json:"at_time,omitempty"`
	Never  *struct{} `json:"never,omitempty"`
}

// ExecuteCosmosMsg builds the wasm execute sub message that a proposal dispatches
func ExecuteCosmosMsg(contractAddr string, msg interface{}, funds sdk.Coins) (wasmvmtypes.CosmosMsg, error) {
	if err := ValidateAddress(contractAddr); err != nil {
		return wasmvmtypes.CosmosMsg{}, sdkerrors.Wrap(err, "contract")
	}
	bz, err := marshalValidated(msg)
	if err != nil {
		return wasmvmtypes.CosmosMsg{}, err
	}
	return wasmvmtypes.CosmosMsg{Wasm: &wasmvmtypes.WasmMsg{Execute: &wasmvmtypes.ExecuteMsg{
		ContractAddr: contractAddr,
		Msg:          bz,
		Funds:        NewCoins(funds),
	}}}, nil
}

// BankSendCosmosMsg builds a bank send sub message
func BankSendCosmosMsg(toAddr string, amount sdk.Coins) wasmvmtypes.CosmosMsg {
	return wasmvmtypes.CosmosMsg{Bank: &wasmvmtypes.BankMsg{Send: &wasmvmtypes.SendMsg{
		ToAddress: toAddr,
		Amount:    NewCoins(amount),
	}}}
}

type validatable interface {
	ValidateBasic() error
}

func marshalValidated(msg interface{}) ([]byte, error) {
	switch m := msg.(type) {
	case nil:
		return nil, sdkerrors.Wrap(types.ErrInvalidMsg, "nil message")
	case []byte:
		return m, nil
	case json.RawMessage:
		return m, nil
	case string:
		return []byte(m), nil
	case validatable:
		if err := m.ValidateBasic(); err != nil {
			return nil, sdkerrors.Wrapf(types.ErrInvalidMsg, "%T: %s", msg, err)
		}
	}
	bz, err := json.Marshal(msg)
	if err != nil {
		return nil, sdkerrors.Wrapf(types.ErrInvalidMsg, "serialize %T: %s", msg, err)
	}
	return bz, nil
}

// exactlyOne returns an error unless exactly one of the flags is set
func exactlyOne(name string, set ...bool) error {
	var n int
	for _, s := range set {
		if s {
			n++
		}
	}
	switch n {
	case 0:
		return sdkerrors.Wrapf(types.ErrEmpty, "%s: no variant set", name)
	case 1:
		return nil
	default:
		return sdkerrors.Wrapf(types.ErrInvalidMsg, "%s: %d variants set", name, n)
	}
}
