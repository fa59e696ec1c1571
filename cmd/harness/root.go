package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/angelprotocol/harness/app"
	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/config"
	"github.com/angelprotocol/harness/store"
	"github.com/angelprotocol/harness/types"
)

const (
	flagHome      = "home"
	flagConfig    = "config"
	flagNetwork   = "network"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagBackend   = "backend"
)

type options struct {
	home       string
	configPath string
	network    string
	logLevel   string
	logFormat  string
	backend    string
	getenv     func(string) string
}

// NewRootCmd returns the harness command with all sub commands
func NewRootCmd() *cobra.Command {
	opts := &options{getenv: os.Getenv}
	rootCmd := &cobra.Command{
		Use:           "harness",
		Short:         "Deploys and exercises the Angel Protocol contracts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addFlags(rootCmd.PersistentFlags(), opts)
	rootCmd.AddCommand(
		runCmd(opts),
		modesCmd(),
		addressesCmd(opts),
		statusCmd(opts),
	)
	return rootCmd
}

func addFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVar(&opts.home, flagHome, app.DefaultHome, "directory for the address book and keyring")
	fs.StringVar(&opts.configPath, flagConfig, "", "network config file replacing the built in one")
	fs.StringVar(&opts.network, flagNetwork, string(config.LocalTerra), "network for commands that take no mode")
	fs.StringVar(&opts.logLevel, flagLogLevel, "info", "log level (trace|debug|info|warn|error)")
	fs.StringVar(&opts.logFormat, flagLogFormat, app.LogFormatPlain, "log format (plain|json)")
	fs.StringVar(&opts.backend, flagBackend, app.BackendCLI, "transaction backend (cli|grpc)")
}

func (o options) logger(cmd *cobra.Command) (log.Logger, error) {
	return app.NewLogger(cmd.ErrOrStderr(), o.logLevel, o.logFormat)
}

// networkArg is the first argument, else the --network flag
func (o options) networkArg(args []string) (config.Network, error) {
	n := config.Network(o.network)
	if len(args) != 0 {
		n = config.Network(args[0])
	}
	return n, n.ValidateBasic()
}

func runCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run [mode]",
		Short: "Run a mode like localterra_setup_core",
		Long: fmt.Sprintf(`Run one operation on one network. Without argument the mode is read from %s
or %s. Unknown modes print "Invalid command". A failing mode exits with status 1.`, EnvMode, EnvLegacyMode),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := ParseMode(modeName(args, opts.getenv))
			if types.ErrUnknownMode.Is(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "Invalid command")
				return nil
			}
			logger, err := opts.logger(cmd)
			if err != nil {
				return err
			}
			return runMode(cmd.Context(), logger, *opts, mode)
		},
	}
}

func runMode(ctx context.Context, logger log.Logger, opts options, mode Mode) error {
	workDir, err := os.Getwd()
	if err != nil {
		return err
	}
	h, err := app.Setup(ctx, app.Options{
		Network:    mode.Network,
		ConfigPath: opts.configPath,
		Home:       opts.home,
		WorkDir:    workDir,
		Backend:    opts.backend,
		Logger:     logger,
		Getenv:     opts.getenv,
	})
	if err != nil {
		return err
	}
	defer h.Close()

	logger = logger.With("mode", mode.String())
	logger.Info("mode started")
	start := time.Now()
	if err := mode.Step()(ctx, h); err != nil {
		logger.Error("mode failed", "err", err)
		return err
	}
	logger.Info("mode done", "duration", time.Since(start).String())
	return nil
}

func modesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List all modes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, m := range Modes() {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
		},
	}
}

func addressesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "addresses [network]",
		Short: "Print the code ids and contract addresses recorded for the network",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := opts.networkArg(args)
			if err != nil {
				return err
			}
			book, err := store.OpenAddressBook(filepath.Join(opts.home, "data"), string(network))
			if err != nil {
				return err
			}
			defer book.Close()
			return printBook(cmd, book)
		},
	}
}

func printBook(cmd *cobra.Command, book *store.AddressBook) error {
	codes, err := book.Codes()
	if err != nil {
		return err
	}
	contracts, err := book.Addresses("")
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, name := range store.CodeNames(codes) {
		fmt.Fprintf(w, "code\t%s\t%s\n", name, cast.ToString(codes[name]))
	}
	for _, e := range contracts {
		fmt.Fprintf(w, "contract\t%s\t%s\n", e.Name, e.Address)
	}
	return w.Flush()
}

func statusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status [network]",
		Short: "Print the height and chain id reported by the network's node",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := opts.networkArg(args)
			if err != nil {
				return err
			}
			cfg, err := config.Load(network, opts.configPath, opts.getenv)
			if err != nil {
				return err
			}
			status, err := chain.RPCStatus(cfg.RPC)
			if err != nil {
				return err
			}
			s, err := status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chain_id=%s height=%d time=%s catching_up=%t version=%s\n",
				s.ChainID, s.Height, s.BlockTime.Format(time.RFC3339), s.CatchingUp, s.NodeVersion)
			return nil
		},
	}
}
