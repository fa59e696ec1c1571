package main

import (
	"strings"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/config"
	"github.com/angelprotocol/harness/deploy"
	"github.com/angelprotocol/harness/scenario"
	"github.com/angelprotocol/harness/types"
)

// ModeTests runs the integration scenarios against a deployed network
const ModeTests = "tests"

// Env vars the mode is read from when no argument is given. npm_config_mode is kept for the
// existing npm scripts.
const (
	EnvMode       = "HARNESS_MODE"
	EnvLegacyMode = "npm_config_mode"
)

// swap setup aliases per network, named after the dex deployed there
var dexAliases = map[config.Network]string{
	config.LocalTerra: "setup_terraswap",
	config.Testnet:    "setup_loopswap",
	config.Mainnet:    "setup_loopswap",
}

// Mode is one operation on one network, written as <network>_<operation>
type Mode struct {
	Network   config.Network
	Operation string
}

func (m Mode) String() string {
	return string(m.Network) + "_" + m.Operation
}

// Step returns the function running the operation
func (m Mode) Step() deploy.Step {
	if m.Operation == ModeTests {
		return scenario.Run
	}
	s, _ := deploy.StepFor(m.Operation)
	return s
}

// ParseMode returns the mode of the name. Aliases resolve to their operation.
func ParseMode(name string) (Mode, error) {
	for _, n := range config.Networks {
		op := strings.TrimPrefix(name, string(n)+"_")
		if op == name {
			continue
		}
		if op == dexAliases[n] {
			op = deploy.StepSetupDex
		}
		if op == ModeTests {
			return Mode{Network: n, Operation: op}, nil
		}
		if _, ok := deploy.StepFor(op); ok {
			return Mode{Network: n, Operation: op}, nil
		}
	}
	return Mode{}, sdkerrors.Wrapf(types.ErrUnknownMode, "%q", name)
}

// Modes lists every mode name, network by network
func Modes() []string {
	ops := append(append([]string{}, deploy.StepNames...), ModeTests)
	r := make([]string, 0, len(config.Networks)*len(ops))
	for _, n := range config.Networks {
		for _, op := range ops {
			r = append(r, Mode{Network: n, Operation: op}.String())
		}
	}
	return r
}

// modeName is the first argument, else the mode from the environment
func modeName(args []string, getenv func(string) string) string {
	if len(args) != 0 {
		return args[0]
	}
	if m := getenv(EnvMode); m != "" {
		return m
	}
	return getenv(EnvLegacyMode)
}
