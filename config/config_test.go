package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/cosmos/go-bip39"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/types"
)

func TestDefault(t *testing.T) {
	specs := map[Network]DexKind{
		LocalTerra: TerraSwap,
		Testnet:    LoopSwap,
		Mainnet:    LoopSwap,
	}
	for network, expDex := range specs {
		t.Run(string(network), func(t *testing.T) {
			c, err := Default(network)
			require.NoError(t, err)
			require.NoError(t, c.ValidateBasic())
			assert.Equal(t, network, c.Network)
			assert.Equal(t, expDex, c.Dex.Kind)
			assert.Equal(t, RoleApTeam, c.Deployer())
			assert.Empty(t, c.Mnemonics)
		})
	}
	_, err := Default("moon")
	assert.True(t, types.ErrInvalidConfig.Is(err))
}

func TestLoad(t *testing.T) {
	mnemonic := randomMnemonic(t)
	specs := map[string]struct {
		env    map[string]string
		expErr *sdkerrors.Error
		assert func(t *testing.T, c Config)
	}{
		"defaults": {
			assert: func(t *testing.T, c Config) {
				assert.Equal(t, "localterra", c.ChainID)
				assert.Equal(t, 1.3, c.GasAdjustment)
			},
		},
		"mnemonic from env": {
			env: map[string]string{"HARNESS_LOCALTERRA_MNEMONIC_AP_TEAM_2": " " + mnemonic + "\n"},
			assert: func(t *testing.T, c Config) {
				assert.Equal(t, mnemonic, c.Mnemonics[RoleApTeam2])
				assert.Len(t, c.Mnemonics, 1)
			},
		},
		"other network env ignored": {
			env: map[string]string{"HARNESS_TESTNET_MNEMONIC_AP_TEAM": mnemonic},
			assert: func(t *testing.T, c Config) {
				assert.Empty(t, c.Mnemonics)
			},
		},
		"gas and await from env": {
			env: map[string]string{
				"HARNESS_LOCALTERRA_GAS_ADJUSTMENT": "1.75",
				"HARNESS_LOCALTERRA_GAS_PRICES":     "0.2uusd",
				"HARNESS_LOCALTERRA_AWAIT_ATTEMPTS": "3",
				"HARNESS_LOCALTERRA_ARTIFACTS_DIR":  "/tmp/artifacts",
			},
			assert: func(t *testing.T, c Config) {
				assert.Equal(t, 1.75, c.GasAdjustment)
				assert.Equal(t, "0.2uusd", c.GasPrices)
				assert.Equal(t, uint(3), c.AwaitChain.Attempts)
				assert.Equal(t, "/tmp/artifacts", c.ArtifactsDir)
			},
		},
		"invalid mnemonic": {
			env:    map[string]string{"HARNESS_LOCALTERRA_MNEMONIC_CHARITY": "not a mnemonic"},
			expErr: types.ErrInvalidConfig,
		},
		"invalid gas adjustment": {
			env:    map[string]string{"HARNESS_LOCALTERRA_GAS_ADJUSTMENT": "lots"},
			expErr: types.ErrInvalidConfig,
		},
		"invalid await attempts": {
			env:    map[string]string{"HARNESS_LOCALTERRA_AWAIT_ATTEMPTS": "-1"},
			expErr: types.ErrInvalidConfig,
		},
		"invalid gas prices": {
			env:    map[string]string{"HARNESS_LOCALTERRA_GAS_PRICES": "uusd"},
			expErr: types.ErrInvalidConfig,
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			c, err := Load(LocalTerra, "", mapEnv(spec.env))
			if spec.expErr != nil {
				require.Error(t, err)
				assert.True(t, spec.expErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			spec.assert(t, c)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, ioutil.WriteFile(path, []byte(content), 0o600))
		return path
	}
	base, err := defaults.ReadFile("networks/localterra.yaml")
	require.NoError(t, err)

	specs := map[string]struct {
		network Network
		path    string
		expErr  bool
	}{
		"valid": {
			network: LocalTerra,
			path:    write("valid.yaml", string(base)),
		},
		"network mismatch": {
			network: Testnet,
			path:    write("mismatch.yaml", string(base)),
			expErr:  true,
		},
		"unknown field": {
			network: LocalTerra,
			path:    write("unknown.yaml", string(base)+"\nfoo: bar\n"),
			expErr:  true,
		},
		"not yaml": {
			network: LocalTerra,
			path:    write("broken.yaml", "network: [localterra"),
			expErr:  true,
		},
		"missing file": {
			network: LocalTerra,
			path:    filepath.Join(dir, "missing.yaml"),
			expErr:  true,
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			_, err := Load(spec.network, spec.path, mapEnv(nil))
			if spec.expErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateBasic(t *testing.T) {
	specs := map[string]struct {
		mutate func(c *Config)
		expErr bool
	}{
		"default":             {mutate: func(c *Config) {}},
		"valid address":       {mutate: func(c *Config) { c.Addresses = map[string]string{"registrar": contract.RandomAddress()} }},
		"valid mnemonic":      {mutate: func(c *Config) { c.Mnemonics = map[Role]string{RolePleb: randomMnemonic(t)} }},
		"valid checksum":      {mutate: func(c *Config) { c.Checksums = map[string]string{"registrar.wasm": sha256Hex} }},
		"empty halo":          {mutate: func(c *Config) { c.Halo = HaloConfig{} }},
		"empty lbp":           {mutate: func(c *Config) { c.Lbp = LbpConfig{} }},
		"empty ica":           {mutate: func(c *Config) { c.Ica = IcaConfig{} }},
		"empty chain id":      {mutate: func(c *Config) { c.ChainID = " " }, expErr: true},
		"empty rpc":           {mutate: func(c *Config) { c.RPC = "" }, expErr: true},
		"invalid denom":       {mutate: func(c *Config) { c.Denom = "u" }, expErr: true},
		"negative gas adj":    {mutate: func(c *Config) { c.GasAdjustment = -1 }, expErr: true},
		"invalid checksum":    {mutate: func(c *Config) { c.Checksums = map[string]string{"registrar.wasm": "abcd"} }, expErr: true},
		"invalid address":     {mutate: func(c *Config) { c.Addresses = map[string]string{"registrar": "terra1xyz"} }, expErr: true},
		"invalid mnemonic":    {mutate: func(c *Config) { c.Mnemonics = map[Role]string{RolePleb: "abandon abandon"} }, expErr: true},
		"empty override path": {mutate: func(c *Config) { c.Overrides = map[string]map[string]string{"registrar": {"": "1"}} }, expErr: true},
		"tax rate above 1":    {mutate: func(c *Config) { c.Core.TaxRate = "1.1" }, expErr: true},
		"invalid treasury":    {mutate: func(c *Config) { c.Core.Treasury = "treasury" }, expErr: true},
		"empty ap team":       {mutate: func(c *Config) { c.Core.ApTeam = nil }, expErr: true},
		"duplicate ap team":   {mutate: func(c *Config) { c.Core.ApTeam = []Role{RoleApTeam, RoleApTeam} }, expErr: true},
		"zero threshold":      {mutate: func(c *Config) { c.Core.Threshold = "0" }, expErr: true},
		"no voting period":    {mutate: func(c *Config) { c.Core.MaxVotingPeriodHeight = 0 }, expErr: true},
		"split out of range":  {mutate: func(c *Config) { c.Core.SplitToLiquid.Max = "2" }, expErr: true},
		"vault acct type":     {mutate: func(c *Config) { c.Core.Vaults[0].AcctType = "savings" }, expErr: true},
		"vault threshold":     {mutate: func(c *Config) { c.Core.Vaults[0].TreasuryWithdrawThreshold = "-1" }, expErr: true},
		"funding goal":        {mutate: func(c *Config) { c.Core.IndexFund.FundingGoal = "lots" }, expErr: true},
		"endowment name":      {mutate: func(c *Config) { c.Endowments[0].Name = "" }, expErr: true},
		"endowment members":   {mutate: func(c *Config) { c.Endowments[0].Members = nil }, expErr: true},
		"endowment threshold": {mutate: func(c *Config) { c.Endowments[1].Threshold = "1.5" }, expErr: true},
		"halo symbol":         {mutate: func(c *Config) { c.Halo.TokenSymbol = "HA" }, expErr: true},
		"halo merkle root":    {mutate: func(c *Config) { c.Halo.MerkleRoot = "00ff" }, expErr: true},
		"halo supply":         {mutate: func(c *Config) { c.Halo.TokenSupply = "" }, expErr: true},
		"lbp duration":        {mutate: func(c *Config) { c.Lbp.Duration = 0 }, expErr: true},
		"lbp weight":          {mutate: func(c *Config) { c.Lbp.TokenStart = "1.5" }, expErr: true},
		"dex kind":            {mutate: func(c *Config) { c.Dex.Kind = "astroport" }, expErr: true},
		"ica connection":      {mutate: func(c *Config) { c.Ica.ConnectionID = "c" }, expErr: true},
		"ica channel":         {mutate: func(c *Config) { c.Ica.ChannelID = "channel/0" }, expErr: true},
		"scenario deposit":    {mutate: func(c *Config) { c.Scenario.Deposit = "4000000" }, expErr: true},
		"scenario locked":     {mutate: func(c *Config) { c.Scenario.LockedPercentage = "2" }, expErr: true},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			c, err := Default(LocalTerra)
			require.NoError(t, err)
			spec.mutate(&c)
			gotErr := c.ValidateBasic()
			if spec.expErr {
				require.Error(t, gotErr)
				assert.True(t, types.ErrInvalidConfig.Is(gotErr), "got %+v", gotErr)
				return
			}
			assert.NoError(t, gotErr)
		})
	}
}

func TestRoles(t *testing.T) {
	c, err := Default(LocalTerra)
	require.NoError(t, err)
	c.Endowments[0].Members = []Role{RoleCharity, "charity_2"}

	roles := c.Roles()

	assert.Equal(t, []Role{RoleApTeam, RoleApTeam2, RoleApTeam3, RoleCharity, RolePleb, RoleTCA, RoleReviewTeam, "charity_2"}, roles)
}

func TestMnemonicEnv(t *testing.T) {
	assert.Equal(t, "HARNESS_MAINNET_MNEMONIC_AP_TEAM_3", MnemonicEnv(Mainnet, RoleApTeam3))
}

const sha256Hex = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

func randomMnemonic(t *testing.T) string {
	t.Helper()
	entropy, err := bip39.NewEntropy(256)
	require.NoError(t, err)
	m, err := bip39.NewMnemonic(entropy)
	require.NoError(t, err)
	return m
}

func mapEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}
