//go:build system_test
// +build system_test

package testing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelprotocol/harness/deploy"
)

// Requires a running LocalTerra node and HARNESS_LOCALTERRA_MNEMONIC_<ROLE> for all roles.
func TestLocalTerraDeployment(t *testing.T) {
	sut.ResetAddressBook(t)
	sut.StartBlockListener(t)
	cli := NewHarnessCli(t, sut, verbose)

	// when
	cli.RunMode("localterra_setup_core")
	sut.AwaitNextBlock(t)
	// then
	addrs := cli.Addresses("localterra")
	for _, name := range []string{deploy.ContractRegistrar, deploy.ContractAccounts, deploy.ContractIndexFund, deploy.ContractApTeamMultisig} {
		require.Contains(t, addrs, name)
		assert.True(t, strings.HasPrefix(addrs[name], "terra1"), addrs[name])
	}

	// when
	cli.RunMode("localterra_setup_endowments")
	// then
	endowments := cli.EndowmentList()
	assert.Len(t, endowments, 2)
	addrs = cli.Addresses("localterra")
	for _, a := range endowments {
		assert.Contains(t, values(addrs), a)
	}

	// when
	cli.RunMode("localterra_tests")
}

func TestInvalidMode(t *testing.T) {
	cli := NewHarnessCli(t, sut, verbose)
	out := cli.RunMode("localterra_deploy_everything")
	assert.Equal(t, "Invalid command", strings.TrimSpace(out))
}

func values(m map[string]string) []string {
	r := make([]string, 0, len(m))
	for _, v := range m {
		r = append(r, v)
	}
	return r
}
