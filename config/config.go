package config

import (
	"embed"
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"time"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"

	"github.com/angelprotocol/harness/types"
)

// Network a chain the harness deploys to
type Network string

const (
	LocalTerra Network = "localterra"
	Testnet    Network = "testnet"
	Mainnet    Network = "mainnet"
)

// Networks all supported networks
var Networks = []Network{LocalTerra, Testnet, Mainnet}

func (n Network) ValidateBasic() error {
	for _, v := range Networks {
		if n == v {
			return nil
		}
	}
	return sdkerrors.Wrapf(types.ErrInvalidConfig, "unknown network %q", string(n))
}

// Role names a wallet by its job in the deployment
type Role string

const (
	RoleApTeam     Role = "ap_team"
	RoleApTeam2    Role = "ap_team_2"
	RoleApTeam3    Role = "ap_team_3"
	RoleCharity    Role = "charity"
	RolePleb       Role = "pleb"
	RoleTCA        Role = "tca"
	RoleReviewTeam Role = "review_team"
)

//go:embed networks/*.yaml
var defaults embed.FS

// Config of a single network
type Config struct {
	Network        Network `yaml:"network"`
	ChainID        string  `yaml:"chain_id"`
	RPC            string  `yaml:"rpc"`
	GRPC           string  `yaml:"grpc"`
	LCD            string  `yaml:"lcd"`
	Binary         string  `yaml:"binary"`
	KeyringBackend string  `yaml:"keyring_backend"`
	Denom          string  `yaml:"denom"`
	GasPrices      string  `yaml:"gas_prices"`
	GasAdjustment  float64 `yaml:"gas_adjustment"`
	// ArtifactsDir holds the compiled wasm files, relative to the working directory
	ArtifactsDir string `yaml:"artifacts_dir"`
	// Checksums hex sha256 per wasm file name. Uploads of files with a differing checksum are rejected.
	Checksums  map[string]string `yaml:"checksums"`
	AwaitChain AwaitConfig       `yaml:"await_chain"`
	Mnemonics  map[Role]string   `yaml:"mnemonics"`
	// Addresses pre recorded contract addresses by contract name
	Addresses map[string]string `yaml:"addresses"`
	// Overrides json values patched into instantiate messages by contract name and json path
	Overrides  map[string]map[string]string `yaml:"overrides"`
	Core       CoreConfig                   `yaml:"core"`
	Endowments []EndowmentConfig            `yaml:"endowments"`
	Halo       HaloConfig                   `yaml:"halo"`
	Lbp        LbpConfig                    `yaml:"lbp"`
	Dex        DexConfig                    `yaml:"dex"`
	Ica        IcaConfig                    `yaml:"ica"`
	Scenario   ScenarioConfig               `yaml:"scenario"`
}

// AwaitConfig polling of the node status before any transaction is sent
type AwaitConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Attempts  uint          `yaml:"attempts"`
	Delay     time.Duration `yaml:"delay"`
	MinHeight int64         `yaml:"min_height"`
}

type CoreConfig struct {
	TaxRate string `yaml:"tax_rate"`
	// Treasury defaults to the ap team wallet
	Treasury       string      `yaml:"treasury"`
	AcceptedTokens []string    `yaml:"accepted_tokens"`
	SplitToLiquid  SplitConfig `yaml:"split_to_liquid"`
	// ApTeam members of the ap team cw4 group, in voting order. The first member deploys.
	ApTeam []Role `yaml:"ap_team"`
	// ReviewTeam members of the applications review multisig
	ReviewTeam            []Role        `yaml:"review_team"`
	Threshold             string        `yaml:"threshold"`
	MaxVotingPeriodHeight uint64        `yaml:"max_voting_period_height"`
	Vaults                []VaultConfig `yaml:"vaults"`
	IndexFund             FundConfig    `yaml:"index_fund"`
}

type SplitConfig struct {
	Min     string `yaml:"min"`
	Max     string `yaml:"max"`
	Default string `yaml:"default"`
}

type VaultConfig struct {
	Name                      string `yaml:"name"`
	Symbol                    string `yaml:"symbol"`
	AcctType                  string `yaml:"acct_type"`
	MoneyMarket               string `yaml:"money_market"`
	TaxPerBlock               string `yaml:"tax_per_block"`
	TreasuryWithdrawThreshold string `yaml:"treasury_withdraw_threshold"`
	HarvestToLiquid           string `yaml:"harvest_to_liquid"`
}

type FundConfig struct {
	FundRotation    uint64 `yaml:"fund_rotation"`
	FundMemberLimit uint32 `yaml:"fund_member_limit"`
	FundingGoal     string `yaml:"funding_goal"`
}

type EndowmentConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Members of the endowment multisig, in voting order. The first member proposes.
	Members                []Role `yaml:"members"`
	Threshold              string `yaml:"threshold"`
	MaxVotingPeriod        uint64 `yaml:"max_voting_period"`
	WithdrawBeforeMaturity bool   `yaml:"withdraw_before_maturity"`
	MaturityTime           uint64 `yaml:"maturity_time"`
	EndowmentType          string `yaml:"endow_type"`
	Overview               string `yaml:"overview"`
}

type HaloConfig struct {
	TokenName       string `yaml:"token_name"`
	TokenSymbol     string `yaml:"token_symbol"`
	TokenSupply     string `yaml:"token_supply"`
	Quorum          string `yaml:"quorum"`
	Threshold       string `yaml:"threshold"`
	VotingPeriod    uint64 `yaml:"voting_period"`
	TimelockPeriod  uint64 `yaml:"timelock_period"`
	ProposalDeposit string `yaml:"proposal_deposit"`
	SnapshotPeriod  uint64 `yaml:"snapshot_period"`
	UnbondingPeriod uint64 `yaml:"unbonding_period"`
	RewardFactor    string `yaml:"reward_factor"`
	SpendLimit      string `yaml:"spend_limit"`
	// GenesisTime of the vesting schedule, unix seconds
	GenesisTime uint64 `yaml:"genesis_time"`
	// MerkleRoot of the airdrop, hex sha256. Empty skips the registration.
	MerkleRoot string `yaml:"merkle_root"`
}

type LbpConfig struct {
	CommissionRate string `yaml:"commission_rate"`
	// StartDelay from now until the sale starts
	StartDelay   time.Duration `yaml:"start_delay"`
	Duration     time.Duration `yaml:"duration"`
	TokenStart   string        `yaml:"token_start_weight"`
	TokenEnd     string        `yaml:"token_end_weight"`
	NativeStart  string        `yaml:"native_start_weight"`
	NativeEnd    string        `yaml:"native_end_weight"`
	TokenAmount  string        `yaml:"token_amount"`
	NativeAmount string        `yaml:"native_amount"`
	Description  string        `yaml:"description"`
}

// DexKind the swap protocol the network uses
type DexKind string

const (
	TerraSwap DexKind = "terraswap"
	LoopSwap  DexKind = "loopswap"
)

type DexConfig struct {
	Kind         DexKind `yaml:"kind"`
	TokenAmount  string  `yaml:"token_amount"`
	NativeAmount string  `yaml:"native_amount"`
}

type IcaConfig struct {
	ConnectionID string `yaml:"connection_id"`
	PortID       string `yaml:"port_id"`
	ChannelID    string `yaml:"channel_id"`
}

type ScenarioConfig struct {
	// Deposit sent by the donor to the first endowment
	Deposit string `yaml:"deposit"`
	// LockedPercentage of a deposit
	LockedPercentage string `yaml:"locked_percentage"`
	// Withdraw requested from the locked account of the first endowment
	Withdraw string `yaml:"withdraw"`
}

// Default returns the built in config of the network
func Default(network Network) (Config, error) {
	if err := network.ValidateBasic(); err != nil {
		return Config{}, err
	}
	bz, err := defaults.ReadFile(fmt.Sprintf("networks/%s.yaml", network))
	if err != nil {
		return Config{}, errors.Wrapf(err, "default config %s", network)
	}
	return Parse(bz)
}

// Parse decodes a yaml config without validation
func Parse(bz []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(bz, &c); err != nil {
		return Config{}, sdkerrors.Wrap(types.ErrInvalidConfig, err.Error())
	}
	return c, nil
}

// Load reads the config of the network. The built in defaults are used when path is empty.
// Environment overrides are applied before validation.
func Load(network Network, path string, getenv func(string) string) (Config, error) {
	var (
		c   Config
		err error
	)
	if path == "" {
		c, err = Default(network)
	} else {
		c, err = LoadFile(path)
	}
	if err != nil {
		return Config{}, err
	}
	if c.Network == "" {
		c.Network = network
	}
	if c.Network != network {
		return Config{}, sdkerrors.Wrapf(types.ErrInvalidConfig, "file %s is for network %q, not %q", path, c.Network, network)
	}
	if err := c.ApplyEnv(getenv); err != nil {
		return Config{}, err
	}
	if err := c.ValidateBasic(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadFile reads a yaml config file
func LoadFile(path string) (Config, error) {
	bz, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	return Parse(bz)
}

// EnvPrefix of all environment overrides for the network, for example HARNESS_LOCALTERRA_
func EnvPrefix(network Network) string {
	return "HARNESS_" + strings.ToUpper(string(network)) + "_"
}

// MnemonicEnv is the variable that overrides the mnemonic of the role
func MnemonicEnv(network Network, role Role) string {
	return EnvPrefix(network) + "MNEMONIC_" + strings.ToUpper(string(role))
}

// ApplyEnv overrides values with environment variables:
// HARNESS_<NETWORK>_MNEMONIC_<ROLE>, HARNESS_<NETWORK>_GAS_PRICES, HARNESS_<NETWORK>_GAS_ADJUSTMENT,
// HARNESS_<NETWORK>_AWAIT_ATTEMPTS, HARNESS_<NETWORK>_ARTIFACTS_DIR.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	prefix := EnvPrefix(c.Network)
	for _, role := range c.Roles() {
		if v := getenv(MnemonicEnv(c.Network, role)); v != "" {
			if c.Mnemonics == nil {
				c.Mnemonics = make(map[Role]string)
			}
			c.Mnemonics[role] = strings.TrimSpace(v)
		}
	}
	if v := getenv(prefix + "GAS_PRICES"); v != "" {
		c.GasPrices = v
	}
	if v := getenv(prefix + "ARTIFACTS_DIR"); v != "" {
		c.ArtifactsDir = v
	}
	if v := getenv(prefix + "GAS_ADJUSTMENT"); v != "" {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return sdkerrors.Wrapf(types.ErrInvalidConfig, "%sGAS_ADJUSTMENT: %s", prefix, err)
		}
		c.GasAdjustment = f
	}
	if v := getenv(prefix + "AWAIT_ATTEMPTS"); v != "" {
		n, err := cast.ToUintE(v)
		if err != nil {
			return sdkerrors.Wrapf(types.ErrInvalidConfig, "%sAWAIT_ATTEMPTS: %s", prefix, err)
		}
		c.AwaitChain.Attempts = n
	}
	return nil
}

// Roles returns every wallet role referenced by the config, without duplicates, in a stable order
func (c Config) Roles() []Role {
	seen := make(map[Role]bool)
	var r []Role
	add := func(roles ...Role) {
		for _, v := range roles {
			if !seen[v] {
				seen[v] = true
				r = append(r, v)
			}
		}
	}
	add(RoleApTeam, RoleApTeam2, RoleApTeam3, RoleCharity, RolePleb, RoleTCA, RoleReviewTeam)
	add(c.Core.ApTeam...)
	add(c.Core.ReviewTeam...)
	for _, e := range c.Endowments {
		add(e.Members...)
	}
	return r
}

// Deployer is the wallet role that uploads and instantiates contracts
func (c Config) Deployer() Role {
	if len(c.Core.ApTeam) != 0 {
		return c.Core.ApTeam[0]
	}
	return RoleApTeam
}
