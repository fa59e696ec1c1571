package deploy

import (
	"fmt"
	"strings"

	"github.com/angelprotocol/harness/config"
)

// Wasm artifact file names
const (
	WasmRegistrar     = "registrar.wasm"
	WasmAccounts      = "accounts.wasm"
	WasmIndexFund     = "index_fund.wasm"
	WasmVault         = "anchor.wasm"
	WasmCW4Group      = "cw4_group.wasm"
	WasmCW3Multisig   = "cw3_multisig.wasm"
	WasmCW3ReviewTeam = "cw3_applications.wasm"

	WasmHaloToken       = "halo_token.wasm"
	WasmHaloGov         = "halo_gov.wasm"
	WasmHaloStaking     = "halo_staking.wasm"
	WasmHaloVesting     = "halo_vesting.wasm"
	WasmHaloCollector   = "halo_collector.wasm"
	WasmHaloDistributor = "halo_distributor.wasm"
	WasmHaloCommunity   = "halo_community.wasm"
	WasmHaloAirdrop     = "halo_airdrop.wasm"

	WasmLbpFactory = "astroport_lbp_factory.wasm"
	WasmLbpPair    = "astroport_lbp_pair.wasm"
	WasmLbpRouter  = "astroport_lbp_router.wasm"
	WasmLbpToken   = "astroport_token.wasm"

	WasmIcaController = "ica_controller.wasm"
	WasmIcaHost       = "ica_host.wasm"
	WasmCW1Whitelist  = "cw1_whitelist.wasm"
)

// Address book names of the deployed contracts
const (
	ContractRegistrar          = "registrar"
	ContractAccounts           = "accounts"
	ContractIndexFund          = "index_fund"
	ContractApTeamGroup        = "ap_team_group"
	ContractApTeamMultisig     = "ap_team_multisig"
	ContractReviewTeamGroup    = "review_team_group"
	ContractReviewTeamMultisig = "review_team_multisig"
	// ContractMoneyMarket is the money market the vaults deposit into when none is configured
	ContractMoneyMarket = "money_market"

	ContractHaloToken       = "halo_token"
	ContractHaloGov         = "halo_gov"
	ContractHaloStaking     = "halo_staking"
	ContractHaloVesting     = "halo_vesting"
	ContractHaloCollector   = "halo_collector"
	ContractHaloDistributor = "halo_distributor"
	ContractHaloCommunity   = "halo_community"
	ContractHaloAirdrop     = "halo_airdrop"

	ContractLbpFactory = "lbp_factory"
	ContractLbpPair    = "lbp_pair"
	ContractLbpRouter  = "lbp_router"
	ContractLbpToken   = "lbp_lp_token"

	ContractDexFactory = "dex_factory"
	ContractDexRouter  = "dex_router"
	ContractHaloPair   = "halo_pair"
	ContractHaloLP     = "halo_lp_token"

	ContractIcaController = "ica_controller"
	ContractIcaHost       = "ica_host"

	vaultPrefix     = "vault/"
	endowmentPrefix = "endowment/"
)

// VaultName is the address book name of the vault with the symbol
func VaultName(symbol string) string {
	return vaultPrefix + strings.ToLower(symbol)
}

// EndowmentName is the address book name of the endowment multisig
func EndowmentName(id uint32) string {
	return fmt.Sprintf("%s%d", endowmentPrefix, id)
}

// dexArtifacts returns the factory, pair, router and token wasm files of the swap protocol
func dexArtifacts(kind config.DexKind) (factory, pair, router, token string) {
	p := string(kind)
	return p + "_factory.wasm", p + "_pair.wasm", p + "_router.wasm", p + "_token.wasm"
}

// Artifacts returns every wasm file the steps upload on a network using the swap protocol
func Artifacts(kind config.DexKind) []string {
	factory, pair, router, token := dexArtifacts(kind)
	r := make([]string, 0, len(coreArtifacts)+len(haloArtifacts)+11)
	r = append(r, coreArtifacts...)
	r = append(r, haloArtifacts...)
	return append(r,
		token, pair, factory, router,
		WasmLbpToken, WasmLbpPair, WasmLbpFactory, WasmLbpRouter,
		WasmCW1Whitelist, WasmIcaHost, WasmIcaController,
	)
}
