package app

import (
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	"github.com/cosmos/cosmos-sdk/std"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	appparams "github.com/angelprotocol/harness/app/params"
)

// MakeEncodingConfig creates a new EncodingConfig with the messages and accounts the harness signs and decodes
func MakeEncodingConfig() appparams.EncodingConfig {
	encodingConfig := appparams.MakeEncodingConfig()
	std.RegisterLegacyAminoCodec(encodingConfig.Amino)
	std.RegisterInterfaces(encodingConfig.InterfaceRegistry)
	authtypes.RegisterInterfaces(encodingConfig.InterfaceRegistry)
	authtypes.RegisterLegacyAminoCodec(encodingConfig.Amino)
	banktypes.RegisterInterfaces(encodingConfig.InterfaceRegistry)
	wasmtypes.RegisterInterfaces(encodingConfig.InterfaceRegistry)
	wasmtypes.RegisterLegacyAminoCodec(encodingConfig.Amino)
	return encodingConfig
}
