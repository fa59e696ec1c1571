package chain

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tidwall/gjson"

	"github.com/angelprotocol/harness/types"
)

var _ Client = &CLIClient{}

// CLIClient wraps the command line interface of the chain binary
type CLIClient struct {
	binary         string
	nodeAddress    string
	chainID        string
	homeDir        string
	keyringBackend string
	gasPrices      string
	gasAdjustment  float64
	workDir        string
	logger         log.Logger
}

// CLIConfig settings for the CLIClient
type CLIConfig struct {
	Binary         string
	NodeAddress    string
	ChainID        string
	HomeDir        string
	KeyringBackend string
	GasPrices      string
	GasAdjustment  float64
	WorkDir        string
}

func NewCLIClient(logger log.Logger, cfg CLIConfig) *CLIClient {
	if cfg.KeyringBackend == "" {
		cfg.KeyringBackend = "test"
	}
	if cfg.GasAdjustment == 0 {
		cfg.GasAdjustment = DefaultGasAdjustment
	}
	return &CLIClient{
		binary:         cfg.Binary,
		nodeAddress:    cfg.NodeAddress,
		chainID:        cfg.ChainID,
		homeDir:        cfg.HomeDir,
		keyringBackend: cfg.KeyringBackend,
		gasPrices:      cfg.GasPrices,
		gasAdjustment:  cfg.GasAdjustment,
		workDir:        cfg.WorkDir,
		logger:         logger.With("client", "cli"),
	}
}

// Execute send MsgExecute to a contract
func (c CLIClient) Execute(ctx context.Context, sender, contractAddr string, msg []byte, funds sdk.Coins) (*TxResult, error) {
	cmd := []string{"tx", "wasm", "execute", contractAddr, string(msg), "--from", sender}
	if !funds.Empty() {
		cmd = append(cmd, "--amount", funds.String())
	}
	return c.runTx(ctx, cmd...)
}

// StoreCode uploads a wasm contract to the chain
func (c CLIClient) StoreCode(ctx context.Context, sender string, wasmCode []byte) (*TxResult, error) {
	f, err := os.CreateTemp("", "harness-*.wasm")
	if err != nil {
		return nil, errors.Wrap(err, "temp file")
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(wasmCode); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "write wasm code")
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrap(err, "close temp file")
	}
	return c.runTx(ctx, "tx", "wasm", "store", f.Name(), "--from", sender)
}

// Instantiate create a new contract instance
func (c CLIClient) Instantiate(ctx context.Context, sender string, req InstantiateRequest) (*TxResult, error) {
	cmd := []string{"tx", "wasm", "instantiate", strconv.FormatUint(req.CodeID, 10), string(req.Msg), "--label", req.Label, "--from", sender}
	if req.Admin == "" {
		cmd = append(cmd, "--no-admin")
	} else {
		cmd = append(cmd, "--admin", req.Admin)
	}
	if !req.Funds.Empty() {
		cmd = append(cmd, "--amount", req.Funds.String())
	}
	return c.runTx(ctx, cmd...)
}

// Migrate a contract to a new code version
func (c CLIClient) Migrate(ctx context.Context, sender, contractAddr string, codeID uint64, msg []byte) (*TxResult, error) {
	return c.runTx(ctx, "tx", "wasm", "migrate", contractAddr, strconv.FormatUint(codeID, 10), string(msg), "--from", sender)
}

// UpdateAdmin set a new contract admin
func (c CLIClient) UpdateAdmin(ctx context.Context, sender, contractAddr, newAdmin string) (*TxResult, error) {
	return c.runTx(ctx, "tx", "wasm", "set-contract-admin", contractAddr, newAdmin, "--from", sender)
}

// QuerySmart run smart contract query
func (c CLIClient) QuerySmart(ctx context.Context, contractAddr string, query []byte) ([]byte, error) {
	out, err := c.run(ctx, c.withQueryFlags("q", "wasm", "contract-state", "smart", contractAddr, string(query))...)
	if err != nil {
		return nil, err
	}
	data := gjson.Get(out, "data")
	if !data.Exists() {
		return nil, sdkerrors.Wrapf(types.ErrUnexpectedResult, "no data in query response: %q", out)
	}
	return []byte(data.Raw), nil
}

// Balance returns balance amount for given denom. Zero when not found
func (c CLIClient) Balance(ctx context.Context, addr, denom string) (sdk.Coin, error) {
	out, err := c.run(ctx, c.withQueryFlags("q", "bank", "balances", addr, "--denom="+denom)...)
	if err != nil {
		return sdk.Coin{}, err
	}
	amount, ok := sdk.NewIntFromString(gjson.Get(out, "amount").String())
	if !ok {
		return sdk.NewInt64Coin(denom, 0), nil
	}
	return sdk.NewCoin(denom, amount), nil
}

// RecoverKey makes sure the key of the name in the keyring belongs to the mnemonic. A key of another
// account is replaced. Returns address
func (c CLIClient) RecoverKey(ctx context.Context, name, mnemonic string, coinType uint32) (string, error) {
	acc, err := MnemonicAddress(mnemonic, coinType)
	if err != nil {
		return "", sdkerrors.Wrapf(err, "key %q", name)
	}
	if addr, err := c.KeyAddress(ctx, name); err == nil {
		if sameAccount(addr, acc) {
			return addr, nil
		}
		c.logger.Info("replacing key of other account", "name", name, "address", addr)
		if _, err := c.run(ctx, c.withKeyringFlags("keys", "delete", name, "--yes")...); err != nil {
			return "", errors.Wrapf(err, "replace key %q", name)
		}
	}
	args := c.withKeyringFlags("keys", "add", name, "--recover", "--coin-type", strconv.FormatUint(uint64(coinType), 10))
	cmd := exec.CommandContext(ctx, c.binary, args...) //nolint:gosec
	cmd.Dir = c.workDir
	cmd.Stdin = strings.NewReader(mnemonic + "\n")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", errors.Wrapf(err, "recover key %q: %s", name, string(out))
	}
	addr, err := c.KeyAddress(ctx, name)
	if err != nil {
		return "", err
	}
	if !sameAccount(addr, acc) {
		return "", sdkerrors.Wrapf(types.ErrUnexpectedResult, "key %q has address %s", name, addr)
	}
	return addr, nil
}

// KeyAddress returns the address of a key in the keyring
func (c CLIClient) KeyAddress(ctx context.Context, name string) (string, error) {
	out, err := c.run(ctx, c.withKeyringFlags("keys", "show", name, "-a")...)
	if err != nil {
		return "", err
	}
	addr := strings.Trim(out, "\n ")
	if addr == "" {
		return "", sdkerrors.Wrapf(types.ErrNotFound, "key %q", name)
	}
	return addr, nil
}

func (c CLIClient) runTx(ctx context.Context, args ...string) (*TxResult, error) {
	out, err := c.run(ctx, c.withTXFlags(args...)...)
	if err != nil {
		return nil, sdkerrors.Wrap(types.ErrTransaction, err.Error())
	}
	res, err := ParseTxResult(out)
	if err != nil {
		return nil, sdkerrors.Wrap(types.ErrTransaction, err.Error())
	}
	c.logger.Debug("tx result", "hash", res.TxHash, "code", res.Code, "gas_used", res.GasUsed)
	return res, res.Err()
}

func (c CLIClient) run(ctx context.Context, args ...string) (string, error) {
	c.logger.Debug("running", "cmd", fmt.Sprintf("%s %s", c.binary, strings.Join(args, " ")))
	gotOut, gotErr := func() (out []byte, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("recovered from panic: %v", r)
			}
		}()
		cmd := exec.CommandContext(ctx, c.binary, args...) //nolint:gosec
		cmd.Dir = c.workDir
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		err = cmd.Run()
		if err != nil {
			return stdout.Bytes(), fmt.Errorf("%s: %s", err, strings.TrimSpace(stderr.String()))
		}
		return stdout.Bytes(), nil
	}()
	if gotErr != nil {
		return "", errors.Wrapf(gotErr, "%s %s", c.binary, args[0])
	}
	return string(gotOut), nil
}

func (c CLIClient) withQueryFlags(args ...string) []string {
	args = append(args, "--output", "json")
	return c.withChainFlags(args...)
}

func (c CLIClient) withTXFlags(args ...string) []string {
	args = append(args,
		"--broadcast-mode", "block",
		"--output", "json",
		"--gas", "auto",
		"--gas-adjustment", strconv.FormatFloat(c.gasAdjustment, 'f', -1, 64),
		"--yes",
	)
	if c.gasPrices != "" {
		args = append(args, "--gas-prices", c.gasPrices)
	}
	args = c.withKeyringFlags(args...)
	return c.withChainFlags(args...)
}

func (c CLIClient) withKeyringFlags(args ...string) []string {
	r := append(args, "--keyring-backend", c.keyringBackend)
	if c.homeDir != "" {
		r = append(r, "--home", c.homeDir)
	}
	for _, v := range args {
		if v == "-a" || v == "--address" { // show address only
			return r
		}
	}
	return append(r, "--output", "json")
}

func (c CLIClient) withChainFlags(args ...string) []string {
	return append(args,
		"--node", c.nodeAddress,
		"--chain-id", c.chainID,
	)
}
