package deploy

import (
	"context"

	"github.com/angelprotocol/harness/app"
	"github.com/angelprotocol/harness/types"
)

// migration replaces the code of all recorded instances of one artifact
type migration struct {
	file string
	// names of the instances in the address book
	names []string
	// prefix matches further instances, like all vaults
	prefix string
}

var coreMigrations = []migration{
	{file: WasmRegistrar, names: []string{ContractRegistrar}},
	{file: WasmAccounts, names: []string{ContractAccounts}},
	{file: WasmIndexFund, names: []string{ContractIndexFund}},
	{file: WasmCW3Multisig, names: []string{ContractApTeamMultisig}},
	{file: WasmCW3ReviewTeam, names: []string{ContractReviewTeamMultisig}},
	{file: WasmVault, prefix: vaultPrefix},
}

var haloMigrations = []migration{
	{file: WasmHaloGov, names: []string{ContractHaloGov}},
	{file: WasmHaloCommunity, names: []string{ContractHaloCommunity}},
	{file: WasmHaloDistributor, names: []string{ContractHaloDistributor}},
	{file: WasmHaloVesting, names: []string{ContractHaloVesting}},
	{file: WasmHaloAirdrop, names: []string{ContractHaloAirdrop}},
	{file: WasmHaloCollector, names: []string{ContractHaloCollector}},
	{file: WasmHaloStaking, names: []string{ContractHaloStaking}},
}

// MigrateCore uploads new core code and migrates the registrar, accounts, index fund, multisigs
// and vaults to it
func MigrateCore(ctx context.Context, h *app.Harness) error {
	return runMigrations(ctx, h, StepMigrateCore, coreMigrations)
}

// MigrateHalo uploads new HALO code and migrates the HALO contracts to it. The token is not migrated.
func MigrateHalo(ctx context.Context, h *app.Harness) error {
	return runMigrations(ctx, h, StepMigrateHalo, haloMigrations)
}

// runMigrations runs one migration after another. Artifacts without a deployed instance are not
// uploaded. The first failure stops the batch.
func runMigrations(ctx context.Context, h *app.Harness, step string, migrations []migration) error {
	d, err := newDeployer(h, step)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		names, err := m.instances(h)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			d.logger.Info("nothing to migrate", "file", m.file)
			continue
		}
		codeID, err := d.upload(ctx, m.file)
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := Migrate(ctx, h, d.sender, name, codeID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m migration) instances(h *app.Harness) ([]string, error) {
	var r []string
	for _, name := range m.names {
		_, err := h.Book.Address(name)
		switch {
		case types.ErrNotFound.Is(err):
			continue
		case err != nil:
			return nil, err
		}
		r = append(r, name)
	}
	if m.prefix == "" {
		return r, nil
	}
	entries, err := h.Book.Addresses(m.prefix)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		r = append(r, e.Name)
	}
	return r, nil
}
