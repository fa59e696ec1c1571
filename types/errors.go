package types

import sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

var (
	ErrTransaction       = sdkerrors.Register(ModuleName, 2, "transaction failed")
	ErrEventNotFound     = sdkerrors.Register(ModuleName, 3, "event not found")
	ErrAttributeNotFound = sdkerrors.Register(ModuleName, 4, "attribute not found")
	ErrInvalidMsg        = sdkerrors.Register(ModuleName, 5, "invalid message")
	ErrInvalidConfig     = sdkerrors.Register(ModuleName, 6, "invalid config")
	ErrNotFound          = sdkerrors.Register(ModuleName, 7, "not found")
	ErrUnknownMode       = sdkerrors.Register(ModuleName, 8, "unknown mode")
	ErrEmpty             = sdkerrors.Register(ModuleName, 9, "empty")
	ErrUnexpectedResult  = sdkerrors.Register(ModuleName, 10, "unexpected result")
)
