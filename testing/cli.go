package testing

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelprotocol/harness/store"
)

// HarnessCli runs the harness binary against the system under test
type HarnessCli struct {
	t             *testing.T
	binary        string
	homeDir       string
	Debug         bool
	assertErrorFn func(t require.TestingT, err error, msgAndArgs ...interface{})
	sut           *SystemUnderTest
}

func NewHarnessCli(t *testing.T, sut *SystemUnderTest, verbose bool) *HarnessCli {
	return &HarnessCli{
		t:             t,
		binary:        filepath.Join(workDir, "build", "harness"),
		homeDir:       sut.homeDir,
		Debug:         verbose,
		assertErrorFn: require.NoError,
		sut:           sut,
	}
}

// RunErrorAssert is custom type that is satisfies by testify matchers as well
type RunErrorAssert func(t require.TestingT, err error, msgAndArgs ...interface{})

// WithRunErrorMatcher assert function to ensure run command error value
func (c HarnessCli) WithRunErrorMatcher(f RunErrorAssert) HarnessCli {
	c.assertErrorFn = f
	return c
}

// RunMode executes one mode like localterra_setup_core. Returns stdout
func (c HarnessCli) RunMode(mode string) string {
	return c.run("run", mode)
}

// Addresses returns the contract addresses recorded for the network by name
func (c HarnessCli) Addresses(network string) map[string]string {
	out := c.run("addresses", network)
	r := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 3 && fields[0] == "contract" {
			r[fields[1]] = fields[2]
		}
	}
	return r
}

// EndowmentList returns the endowment addresses written by setup_endowments
func (c HarnessCli) EndowmentList() []string {
	l, err := store.NewEndowmentList(workDir).Read()
	require.NoError(c.t, err)
	return l
}

func (c HarnessCli) run(args ...string) string {
	args = append(args, "--home", c.homeDir, "--log-format", "json")
	if c.Debug {
		c.t.Logf("+++ running `harness %s`", strings.Join(args, " "))
	}
	gotOut, gotErr := func() (out []byte, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("recovered from panic: %v", r)
			}
		}()
		cmd := exec.Command(c.binary, args...) //nolint:gosec
		cmd.Dir = workDir
		var stdout, stderr strings.Builder
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		err = cmd.Run()
		c.sut.record(stdout.String(), stderr.String())
		return []byte(stdout.String()), err
	}()
	c.assertErrorFn(c.t, gotErr, string(gotOut))
	return string(gotOut)
}
