package deploy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/angelprotocol/harness/config"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/deploy"
	"github.com/angelprotocol/harness/deploy/deploytesting"
	"github.com/angelprotocol/harness/types"
)

func TestSetupCore(t *testing.T) {
	n, h := setup(t, deploy.SetupCore)

	apMultisig := n.Multisig(t, deploy.ContractApTeamMultisig)
	reviewMultisig := n.Multisig(t, deploy.ContractReviewTeamMultisig)
	assert.Equal(t, apMultisig.Addr, address(t, h, deploy.ContractApTeamMultisig))
	assert.Len(t, apMultisig.Members, 3)
	assert.Len(t, reviewMultisig.Members, 2)
	assert.Equal(t, n.Accounts.Addr, reviewMultisig.ApplicationTarget)
	assert.Equal(t, apMultisig.Addr, n.Accounts.ApTeamMultisig)

	// ownership handed over
	assert.Equal(t, apMultisig.Addr, n.Owned[deploy.ContractRegistrar].Owner)
	assert.Equal(t, apMultisig.Addr, n.Owned[deploy.ContractIndexFund].Owner)
	assert.Equal(t, apMultisig.Addr, n.Owned[deploy.ContractApTeamGroup].Owner)
	assert.Equal(t, reviewMultisig.Addr, n.Owned[deploy.ContractReviewTeamGroup].Owner)

	// deployer stays wasm admin
	deployer, err := h.Deployer()
	require.NoError(t, err)
	assert.Equal(t, deployer.Address, n.Chain.Admin(address(t, h, deploy.ContractRegistrar)))

	// vaults registered and approved
	registrar := n.Owned[deploy.ContractRegistrar]
	require.Len(t, registrar.Executed("vault_add"), 2)
	require.Len(t, registrar.Executed("vault_update_status"), 2)
	lockedVault := address(t, h, deploy.VaultName("apLOCK"))
	assert.Equal(t, lockedVault, gjson.GetBytes(registrar.Executed("vault_add")[0], "vault_add.vault_addr").String())
	assert.Equal(t, "locked", gjson.GetBytes(registrar.Executed("vault_add")[0], "vault_add.acct_type").String())
	assert.True(t, gjson.GetBytes(registrar.Executed("vault_update_status")[1], "vault_update_status.approved").Bool())

	// registrar wired
	updates := registrar.Executed("update_config")
	require.Len(t, updates, 1)
	cfg := gjson.GetBytes(updates[0], "update_config")
	assert.Equal(t, address(t, h, deploy.ContractAccounts), cfg.Get("accounts_contract").String())
	assert.Equal(t, address(t, h, deploy.ContractIndexFund), cfg.Get("index_fund_contract").String())
	assert.Equal(t, reviewMultisig.Addr, cfg.Get("applications_review").String())
	assert.Equal(t, lockedVault, cfg.Get("default_vault").String())
	cw3Code, err := h.Book.CodeID(deploy.WasmCW3Multisig)
	require.NoError(t, err)
	assert.Equal(t, cw3Code, cfg.Get("cw3_code").Uint())

	codes, err := h.Book.Codes()
	require.NoError(t, err)
	assert.Len(t, codes, 7)
}

func TestSetupCoreWithoutReviewTeam(t *testing.T) {
	n := deploytesting.NewNetwork()
	h := n.Harness(t, func(c *config.Config) {
		c.Core.ReviewTeam = nil
	})
	require.NoError(t, deploy.SetupCore(context.Background(), h))

	_, ok := n.Multisigs[deploy.ContractReviewTeamMultisig]
	assert.False(t, ok)
	updates := n.Owned[deploy.ContractRegistrar].Executed("update_config")
	require.Len(t, updates, 1)
	assert.False(t, gjson.GetBytes(updates[0], "update_config.applications_review").Exists())
}

func TestSetupCoreMissingWallet(t *testing.T) {
	n := deploytesting.NewNetwork()
	h := n.Harness(t)
	h.Config.Core.ApTeam = append(h.Config.Core.ApTeam, "ap_team_4")

	err := deploy.SetupCore(context.Background(), h)
	require.Error(t, err)
	assert.True(t, types.ErrNotFound.Is(err))
	assert.Empty(t, n.Chain.Executed)
}

func TestSetupEndowments(t *testing.T) {
	n, h := setup(t, deploy.SetupCore, deploy.SetupEndowments)

	require.Len(t, n.Endowments, 2)
	lines, err := h.Endowments.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{n.Endowments[0].Addr, n.Endowments[1].Addr}, lines)
	assert.Equal(t, n.Endowments[0].Addr, address(t, h, deploy.EndowmentName(1)))
	assert.Equal(t, n.Endowments[1].Addr, address(t, h, deploy.EndowmentName(2)))
	assert.Equal(t, n.Endowments[1].Addr, n.Accounts.Endowments[2])
	assert.Len(t, n.Endowments[1].Members, 2)

	// every endowment approved by the ap team
	apMultisig := n.Multisig(t, deploy.ContractApTeamMultisig)
	registrar := n.Owned[deploy.ContractRegistrar]
	approvals := registrar.Executed("update_endowment_status")
	require.Len(t, approvals, 2)
	for i, a := range approvals {
		assert.Equal(t, uint64(i+1), gjson.GetBytes(a, "update_endowment_status.endowment_id").Uint())
		assert.Equal(t, uint64(contract.EndowmentStatusApproved), gjson.GetBytes(a, "update_endowment_status.status").Uint())
	}
	assert.Equal(t, apMultisig.Addr, registrar.Senders[len(registrar.Senders)-1])
	assert.Equal(t, map[uint64]int{1001: 1, 1002: 1}, apMultisig.Executions)
}

func TestSetupEndowmentsRequiresCore(t *testing.T) {
	_, h := setup(t)
	err := deploy.SetupEndowments(context.Background(), h)
	require.Error(t, err)
	assert.True(t, types.ErrNotFound.Is(err))
}

func TestSetupDexAndHalo(t *testing.T) {
	n, h := setup(t, deploy.SetupCore, deploy.SetupDex, deploy.SetupHalo)

	codes, err := h.Book.Codes()
	require.NoError(t, err)
	assert.Contains(t, codes, "terraswap_factory.wasm")
	assert.Contains(t, codes, deploy.WasmHaloStaking)

	factory := n.Factories[deploy.ContractDexFactory]
	require.NotNil(t, factory)
	require.Len(t, factory.Pairs, 1)
	token := address(t, h, deploy.ContractHaloToken)
	assert.Equal(t, token, gjson.GetBytes(factory.CreateMsgs[0], "asset_infos.0.token.contract_addr").String())
	assert.Equal(t, "uusd", gjson.GetBytes(factory.CreateMsgs[0], "asset_infos.1.native_token.denom").String())
	assert.Equal(t, factory.Pairs[0].ContractAddr, address(t, h, deploy.ContractHaloPair))
	assert.Equal(t, factory.Pairs[0].LiquidityToken, address(t, h, deploy.ContractHaloLP))

	// liquidity provided with native funds
	var provided bool
	for _, e := range n.Chain.Executed {
		if e.Contract == factory.Pairs[0].ContractAddr {
			provided = true
			assert.Equal(t, "100000000uusd", e.Funds.String())
		}
	}
	assert.True(t, provided)

	// registrar updated by ap team proposals: swap router, then halo contracts
	registrar := n.Owned[deploy.ContractRegistrar]
	updates := registrar.Executed("update_config")
	require.Len(t, updates, 3)
	assert.Equal(t, address(t, h, deploy.ContractDexRouter), gjson.GetBytes(updates[1], "update_config.swaps_router").String())
	assert.Equal(t, token, gjson.GetBytes(updates[2], "update_config.halo_token").String())
	assert.Equal(t, address(t, h, deploy.ContractHaloGov), gjson.GetBytes(updates[2], "update_config.gov_contract").String())
	assert.Equal(t, address(t, h, deploy.ContractHaloCollector), gjson.GetBytes(updates[2], "update_config.collector_addr").String())
	apMultisig := n.Multisig(t, deploy.ContractApTeamMultisig)
	assert.Equal(t, []string{apMultisig.Addr, apMultisig.Addr}, registrar.Senders[len(registrar.Senders)-2:])
}

func TestSetupHaloWithoutDex(t *testing.T) {
	_, h := setup(t, deploy.SetupCore, deploy.SetupHalo)

	_, err := h.Book.Address(deploy.ContractHaloCollector)
	assert.True(t, types.ErrNotFound.Is(err))
	_, err = h.Book.Address(deploy.ContractHaloPair)
	assert.True(t, types.ErrNotFound.Is(err))
	address(t, h, deploy.ContractHaloStaking)
}

func TestSetupHaloRequiresConfig(t *testing.T) {
	n := deploytesting.NewNetwork()
	h := n.Harness(t, func(c *config.Config) {
		c.Halo = config.HaloConfig{}
	})
	require.NoError(t, deploy.SetupCore(context.Background(), h))

	err := deploy.SetupHalo(context.Background(), h)
	require.Error(t, err)
	assert.True(t, types.ErrInvalidConfig.Is(err))
}

func TestSetupLbp(t *testing.T) {
	n, h := setup(t, deploy.SetupCore, deploy.SetupHalo, deploy.SetupLbp)

	factory := n.Factories[deploy.ContractLbpFactory]
	require.NotNil(t, factory)
	require.Len(t, factory.CreateMsgs, 1)
	create := gjson.ParseBytes(factory.CreateMsgs[0])
	start := uint64(deploytesting.Now.Unix()) + 300
	assert.Equal(t, start, create.Get("start_time").Uint())
	assert.Equal(t, start+72*3600, create.Get("end_time").Uint())
	assert.Equal(t, "96", create.Get("asset_infos.0.start_weight").String())
	assert.Equal(t, "50", create.Get("asset_infos.1.end_weight").String())
	assert.Equal(t, factory.Pairs[0].ContractAddr, address(t, h, deploy.ContractLbpPair))
	address(t, h, deploy.ContractLbpRouter)

	var provided bool
	for _, e := range n.Chain.Executed {
		if e.Contract == factory.Pairs[0].ContractAddr {
			provided = true
			assert.Equal(t, "1000000000uusd", e.Funds.String())
		}
	}
	assert.True(t, provided)
}

func TestSetupLbpRequiresHalo(t *testing.T) {
	_, h := setup(t, deploy.SetupCore)
	err := deploy.SetupLbp(context.Background(), h)
	require.Error(t, err)
	assert.True(t, types.ErrNotFound.Is(err))
}

func TestMigrateCore(t *testing.T) {
	n, h := setup(t, deploy.SetupCore)
	before, err := h.Book.CodeID(deploy.WasmRegistrar)
	require.NoError(t, err)

	// when
	require.NoError(t, deploy.MigrateCore(context.Background(), h))

	// then
	after, err := h.Book.CodeID(deploy.WasmRegistrar)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
	var migrated []string
	for _, m := range n.Chain.Migrations {
		migrated = append(migrated, m.Contract)
		assert.JSONEq(t, `{}`, string(m.Msg))
	}
	assert.Equal(t, []string{
		address(t, h, deploy.ContractRegistrar),
		address(t, h, deploy.ContractAccounts),
		address(t, h, deploy.ContractIndexFund),
		address(t, h, deploy.ContractApTeamMultisig),
		address(t, h, deploy.ContractReviewTeamMultisig),
		address(t, h, deploy.VaultName("apLIQ")),
		address(t, h, deploy.VaultName("apLOCK")),
	}, migrated)
}

func TestMigrateHaloSkipsMissingContracts(t *testing.T) {
	n, h := setup(t, deploy.SetupCore, deploy.SetupHalo)
	codesBefore, err := h.Book.Codes()
	require.NoError(t, err)
	collectorCode := codesBefore[deploy.WasmHaloCollector]

	require.NoError(t, deploy.MigrateHalo(context.Background(), h))

	// six contracts without the collector, the token is never migrated
	assert.Len(t, n.Chain.Migrations, 6)
	codesAfter, err := h.Book.Codes()
	require.NoError(t, err)
	assert.Equal(t, collectorCode, codesAfter[deploy.WasmHaloCollector])
}

func TestMigrateFailsForOtherAdmin(t *testing.T) {
	n, h := setup(t, deploy.SetupCore)
	deployer, err := h.Deployer()
	require.NoError(t, err)
	registrar := address(t, h, deploy.ContractRegistrar)
	_, err = n.Chain.UpdateAdmin(context.Background(), deployer.Address, registrar, contract.RandomAddress())
	require.NoError(t, err)

	err = deploy.MigrateCore(context.Background(), h)
	require.Error(t, err)
	assert.True(t, types.ErrTransaction.Is(err))
	assert.Contains(t, err.Error(), "unauthorized")
	assert.Empty(t, n.Chain.Migrations)
}

func TestSetupIca(t *testing.T) {
	specs := map[string]struct {
		ica         config.IcaConfig
		expRegister bool
	}{
		"with connection": {
			ica:         config.IcaConfig{ConnectionID: "connection-0", PortID: "icacontroller-angel"},
			expRegister: true,
		},
		"without connection": {},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			n := deploytesting.NewNetwork()
			h := n.Harness(t, func(c *config.Config) {
				c.Ica = spec.ica
			})

			// when
			require.NoError(t, deploy.SetupIca(context.Background(), h))

			// then
			address(t, h, deploy.ContractIcaHost)
			controller := address(t, h, deploy.ContractIcaController)
			var registers []string
			for _, e := range n.Chain.Executed {
				if e.Contract == controller {
					registers = append(registers, gjson.GetBytes(e.Msg, "register.connection_id").String())
				}
			}
			if spec.expRegister {
				assert.Equal(t, []string{"connection-0"}, registers)
			} else {
				assert.Empty(t, registers)
			}
		})
	}
}
