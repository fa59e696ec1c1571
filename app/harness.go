package app

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/config"
	"github.com/angelprotocol/harness/cw3"
	"github.com/angelprotocol/harness/store"
	"github.com/angelprotocol/harness/types"
)

const (
	BackendCLI  = "cli"
	BackendGRPC = "grpc"
)

// DefaultHome holds the address book and the cli keyring unless --home is given
var DefaultHome string

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	DefaultHome = filepath.Join(userHomeDir, ".angel-harness")
}

// Harness is the run context shared by all steps of a mode
type Harness struct {
	Config config.Config
	Logger log.Logger
	Client chain.Client
	// Querier for read only requests, the Client unless an LCD endpoint is used
	Querier    chain.Querier
	Book       *store.AddressBook
	Endowments *store.EndowmentList
	CW3        *cw3.Orchestrator
	// Now is the clock for time based contract parameters
	Now     func() time.Time
	wallets map[config.Role]chain.Wallet
	closers []func() error
}

// NewHarness returns a harness for the given wallets. Wallets are looked up by role.
func NewHarness(cfg config.Config, logger log.Logger, client chain.Client, book *store.AddressBook, endowments *store.EndowmentList, wallets map[config.Role]chain.Wallet) *Harness {
	return &Harness{
		Config:     cfg,
		Logger:     logger,
		Client:     client,
		Querier:    client,
		Book:       book,
		Endowments: endowments,
		CW3:        cw3.NewOrchestrator(logger),
		Now:        time.Now,
		wallets:    wallets,
	}
}

// Wallet returns the wallet of the role
func (h *Harness) Wallet(role config.Role) (chain.Wallet, error) {
	w, ok := h.wallets[role]
	if !ok {
		return chain.Wallet{}, sdkerrors.Wrapf(types.ErrNotFound, "wallet %s: set %s", role, config.MnemonicEnv(h.Config.Network, role))
	}
	return w, nil
}

// Wallets returns the wallets of the roles in the same order
func (h *Harness) Wallets(roles []config.Role) ([]chain.Wallet, error) {
	r := make([]chain.Wallet, len(roles))
	for i, role := range roles {
		w, err := h.Wallet(role)
		if err != nil {
			return nil, err
		}
		r[i] = w
	}
	return r, nil
}

// Deployer is the wallet that uploads and instantiates contracts and is their admin until hand over
func (h *Harness) Deployer() (chain.Wallet, error) {
	return h.Wallet(h.Config.Deployer())
}

// Artifact reads the wasm file from the artifacts directory
func (h *Harness) Artifact(file string) ([]byte, error) {
	bz, err := ioutil.ReadFile(filepath.Join(h.Config.ArtifactsDir, file))
	if err != nil {
		return nil, errors.Wrapf(err, "artifact %s", file)
	}
	return bz, nil
}

// Close releases the address book and client connections
func (h *Harness) Close() error {
	var first error
	for i := len(h.closers) - 1; i >= 0; i-- {
		if err := h.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Options to set up a harness from a network config
type Options struct {
	Network    config.Network
	ConfigPath string
	// Home holds the address book and the cli keyring
	Home string
	// WorkDir is where endowment_list.txt is written
	WorkDir string
	Backend string
	Logger  log.Logger
	Getenv  func(string) string
}

// Setup loads the config, waits for the chain when configured, imports the wallets and connects the client
func Setup(ctx context.Context, opts Options) (*Harness, error) {
	logger := opts.Logger.With("network", string(opts.Network))
	cfg, err := config.Load(opts.Network, opts.ConfigPath, opts.Getenv)
	if err != nil {
		return nil, err
	}

	book, err := store.OpenAddressBook(filepath.Join(opts.Home, "data"), string(cfg.Network))
	if err != nil {
		return nil, err
	}
	closers := []func() error{book.Close}
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}
	if err := book.Seed(cfg.Addresses); err != nil {
		closeAll()
		return nil, err
	}

	if cfg.AwaitChain.Enabled {
		status, err := chain.RPCStatus(cfg.RPC)
		if err != nil {
			closeAll()
			return nil, err
		}
		if _, err := chain.AwaitChainUp(ctx, logger, status, cfg.AwaitChain.MinHeight, cfg.AwaitChain.Attempts, cfg.AwaitChain.Delay); err != nil {
			closeAll()
			return nil, err
		}
	}

	var (
		client  chain.Client
		querier chain.Querier
		wallets = make(map[config.Role]chain.Wallet)
	)
	switch opts.Backend {
	case BackendCLI, "":
		c := chain.NewCLIClient(logger, chain.CLIConfig{
			Binary:         cfg.Binary,
			NodeAddress:    cfg.RPC,
			ChainID:        cfg.ChainID,
			HomeDir:        opts.Home,
			KeyringBackend: cfg.KeyringBackend,
			GasPrices:      cfg.GasPrices,
			GasAdjustment:  cfg.GasAdjustment,
			WorkDir:        opts.WorkDir,
		})
		addrs, err := importCLIKeys(ctx, logger, c, cfg)
		if err != nil {
			closeAll()
			return nil, err
		}
		for role, addr := range addrs {
			wallets[role] = chain.NewWallet(string(role), addr, c)
		}
		client, querier = c, c
	case BackendGRPC:
		kr := keyring.NewInMemory()
		addrs := make(map[config.Role]string)
		for _, role := range cfg.Roles() {
			mnemonic, ok := cfg.Mnemonics[role]
			if !ok {
				continue
			}
			addr, err := chain.RecoverKey(kr, string(role), mnemonic)
			if err != nil {
				closeAll()
				return nil, err
			}
			addrs[role] = addr
		}
		c, err := chain.NewGRPCClient(ctx, logger, MakeEncodingConfig(), kr, chain.GRPCConfig{
			GRPCAddress:   cfg.GRPC,
			ChainID:       cfg.ChainID,
			GasPrices:     cfg.GasPrices,
			GasAdjustment: cfg.GasAdjustment,
		})
		if err != nil {
			closeAll()
			return nil, err
		}
		closers = append(closers, c.Close)
		for role, addr := range addrs {
			wallets[role] = chain.NewWallet(string(role), addr, c)
		}
		client, querier = c, c
	default:
		closeAll()
		return nil, sdkerrors.Wrapf(types.ErrInvalidConfig, "backend %q", opts.Backend)
	}
	if cfg.LCD != "" {
		querier = chain.NewLCDQuerier(cfg.LCD, 30*time.Second)
	}
	logger.Info("harness ready", "chain_id", cfg.ChainID, "backend", opts.Backend, "wallets", len(wallets))

	h := NewHarness(cfg, logger, client, book, store.NewEndowmentList(opts.WorkDir), wallets)
	h.Querier = querier
	h.closers = closers
	return h, nil
}

// keyImporter is the keyring of the chain binary
type keyImporter interface {
	RecoverKey(ctx context.Context, name, mnemonic string, coinType uint32) (string, error)
	KeyAddress(ctx context.Context, name string) (string, error)
}

// importCLIKeys imports the configured mnemonics into the keyring. Roles without mnemonic use an
// existing key of the same name, or get no wallet when there is none.
func importCLIKeys(ctx context.Context, logger log.Logger, kr keyImporter, cfg config.Config) (map[config.Role]string, error) {
	addrs := make(map[config.Role]string)
	for _, role := range cfg.Roles() {
		if mnemonic, ok := cfg.Mnemonics[role]; ok {
			addr, err := kr.RecoverKey(ctx, string(role), mnemonic, chain.TerraCoinType)
			if err != nil {
				return nil, sdkerrors.Wrapf(err, "wallet %s", role)
			}
			addrs[role] = addr
			continue
		}
		addr, err := kr.KeyAddress(ctx, string(role))
		if err != nil {
			logger.Debug("no key for role", "role", string(role), "err", err)
			continue
		}
		addrs[role] = addr
	}
	return addrs, nil
}
