package deploy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tidwall/sjson"

	"github.com/angelprotocol/harness/app"
	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/contract"
	"github.com/angelprotocol/harness/types"
)

// Step is a single deployment mode, run against the harness of one network
type Step func(ctx context.Context, h *app.Harness) error

const (
	StepSetupCore       = "setup_core"
	StepSetupHalo       = "setup_halo"
	StepSetupLbp        = "setup_lbp"
	StepSetupDex        = "setup_dex"
	StepSetupEndowments = "setup_endowments"
	StepMigrateCore     = "migrate_core"
	StepMigrateHalo     = "migrate_halo"
	StepSetupIca        = "setup_ica"
)

// StepNames in the order a fresh network is set up
var StepNames = []string{
	StepSetupCore,
	StepSetupEndowments,
	StepSetupDex,
	StepSetupHalo,
	StepSetupLbp,
	StepMigrateCore,
	StepMigrateHalo,
	StepSetupIca,
}

// StepFor returns the step of the mode suffix
func StepFor(name string) (Step, bool) {
	switch name {
	case StepSetupCore:
		return SetupCore, true
	case StepSetupHalo:
		return SetupHalo, true
	case StepSetupLbp:
		return SetupLbp, true
	case StepSetupDex:
		return SetupDex, true
	case StepSetupEndowments:
		return SetupEndowments, true
	case StepMigrateCore:
		return MigrateCore, true
	case StepMigrateHalo:
		return MigrateHalo, true
	case StepSetupIca:
		return SetupIca, true
	}
	return nil, false
}

// deployer sends all upload, instantiate and admin transactions of a step
type deployer struct {
	h      *app.Harness
	sender chain.Wallet
	logger log.Logger
}

func newDeployer(h *app.Harness, step string) (*deployer, error) {
	sender, err := h.Deployer()
	if err != nil {
		return nil, err
	}
	return &deployer{h: h, sender: sender, logger: h.Logger.With("module", "deploy", "step", step)}, nil
}

func (d *deployer) upload(ctx context.Context, file string) (uint64, error) {
	return Upload(ctx, d.h, d.sender, file)
}

func (d *deployer) instantiate(ctx context.Context, name string, codeID uint64, msg interface{}) (string, error) {
	return Instantiate(ctx, d.h, d.sender, name, codeID, msg)
}

func (d *deployer) execute(ctx context.Context, contractAddr string, msg interface{}, funds sdk.Coins) (*chain.TxResult, error) {
	return d.sender.Execute(ctx, contractAddr, msg, funds)
}

// address returns a recorded contract address
func (d *deployer) address(name string) (string, error) {
	addr, err := d.h.Book.Address(name)
	if err != nil {
		return "", sdkerrors.Wrapf(err, "run the step deploying %s first", name)
	}
	return addr, nil
}

// Checksum is the hex encoded sha256 of a wasm file
func Checksum(wasmCode []byte) string {
	sum := sha256.Sum256(wasmCode)
	return hex.EncodeToString(sum[:])
}

// Upload stores the artifact on chain and records its code id under the file name.
// A checksum configured for the file must match.
func Upload(ctx context.Context, h *app.Harness, sender chain.Wallet, file string) (uint64, error) {
	wasmCode, err := h.Artifact(file)
	if err != nil {
		return 0, err
	}
	checksum := Checksum(wasmCode)
	if exp, ok := h.Config.Checksums[file]; ok && !strings.EqualFold(exp, checksum) {
		return 0, sdkerrors.Wrapf(types.ErrInvalidConfig, "checksum of %s: got %s, expected %s", file, checksum, exp)
	}
	res, err := sender.Client().StoreCode(ctx, sender.Address, wasmCode)
	if res, err = chain.CheckResult(res, err, "store "+file); err != nil {
		return 0, err
	}
	codeID, err := chain.DecodeStoreCode(res)
	if err != nil {
		return 0, sdkerrors.Wrapf(err, "store %s", file)
	}
	if err := h.Book.SetCodeID(file, codeID); err != nil {
		return 0, err
	}
	h.Logger.Info("code stored", "file", file, "code_id", codeID, "checksum", checksum, "tx", res.TxHash)
	return codeID, nil
}

// Instantiate creates a contract with the sender as wasm admin and records its address under name.
// Configured overrides for name are patched into the message first.
func Instantiate(ctx context.Context, h *app.Harness, sender chain.Wallet, name string, codeID uint64, msg interface{}) (string, error) {
	bz, err := chain.MarshalMsg(msg)
	if err != nil {
		return "", sdkerrors.Wrapf(err, "instantiate %s", name)
	}
	if bz, err = ApplyOverrides(bz, h.Config.Overrides[name]); err != nil {
		return "", sdkerrors.Wrapf(err, "instantiate %s", name)
	}
	res, err := sender.Client().Instantiate(ctx, sender.Address, chain.InstantiateRequest{
		CodeID: codeID,
		Label:  name,
		Admin:  sender.Address,
		Msg:    bz,
	})
	if res, err = chain.CheckResult(res, err, "instantiate "+name); err != nil {
		return "", err
	}
	addr, err := chain.DecodeInstantiate(res)
	if err != nil {
		return "", sdkerrors.Wrapf(err, "instantiate %s", name)
	}
	if err := h.Book.SetAddress(name, addr); err != nil {
		return "", err
	}
	h.Logger.Info("contract instantiated", "name", name, "code_id", codeID, "address", addr, "tx", res.TxHash)
	return addr, nil
}

// Migrate moves the contract to the new code. Only the wasm admin can do this.
func Migrate(ctx context.Context, h *app.Harness, sender chain.Wallet, name string, codeID uint64) error {
	addr, err := h.Book.Address(name)
	if err != nil {
		return err
	}
	bz, err := chain.MarshalMsg(contract.MigrateMsg{})
	if err != nil {
		return err
	}
	res, err := sender.Client().Migrate(ctx, sender.Address, addr, codeID, bz)
	if res, err = chain.CheckResult(res, err, "migrate "+name); err != nil {
		return err
	}
	h.Logger.Info("contract migrated", "name", name, "address", addr, "code_id", codeID, "tx", res.TxHash)
	return nil
}

// ApplyOverrides sets the json paths of msg to the given values. Values that are valid json are set
// raw, all others as strings. Paths are applied in sorted order.
func ApplyOverrides(msg []byte, overrides map[string]string) ([]byte, error) {
	paths := make([]string, 0, len(overrides))
	for p := range overrides {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	var err error
	for _, p := range paths {
		v := overrides[p]
		if json.Valid([]byte(v)) {
			msg, err = sjson.SetRawBytes(msg, p, []byte(v))
		} else {
			msg, err = sjson.SetBytes(msg, p, v)
		}
		if err != nil {
			return nil, sdkerrors.Wrapf(types.ErrInvalidConfig, "override %s: %s", p, err)
		}
	}
	return msg, nil
}
