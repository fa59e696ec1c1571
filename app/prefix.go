package app

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/angelprotocol/harness/chain"
)

const (
	Bech32Prefix = "terra"

	// PrefixValidator is the prefix for validator keys
	PrefixValidator = "val"
	// PrefixConsensus is the prefix for consensus keys
	PrefixConsensus = "cons"
	// PrefixPublic is the prefix for public keys
	PrefixPublic = "pub"
	// PrefixOperator is the prefix for operator keys
	PrefixOperator = "oper"

	Bech32PrefixAccPub   = Bech32Prefix + PrefixPublic
	Bech32PrefixValAddr  = Bech32Prefix + PrefixValidator + PrefixOperator
	Bech32PrefixValPub   = Bech32Prefix + PrefixValidator + PrefixOperator + PrefixPublic
	Bech32PrefixConsAddr = Bech32Prefix + PrefixValidator + PrefixConsensus
	Bech32PrefixConsPub  = Bech32Prefix + PrefixValidator + PrefixConsensus + PrefixPublic
)

// SetAddressPrefixes sets the terra bech32 prefixes and the bip44 coin type on the global sdk config
func SetAddressPrefixes() {
	config := sdk.GetConfig()
	config.SetBech32PrefixForAccount(Bech32Prefix, Bech32PrefixAccPub)
	config.SetBech32PrefixForValidator(Bech32PrefixValAddr, Bech32PrefixValPub)
	config.SetBech32PrefixForConsensusNode(Bech32PrefixConsAddr, Bech32PrefixConsPub)
	config.SetCoinType(chain.TerraCoinType)
}
