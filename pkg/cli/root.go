// Package cli implements the cidreg command tree.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/cidreg/pkg/anchor"
	"github.com/DeBrosOfficial/cidreg/pkg/config"
	"github.com/DeBrosOfficial/cidreg/pkg/errors"
	"github.com/DeBrosOfficial/cidreg/pkg/ipfs"
	"github.com/DeBrosOfficial/cidreg/pkg/logging"
	"github.com/DeBrosOfficial/cidreg/pkg/registry"
)

// StorageClient is the storage surface the commands use.
type StorageClient interface {
	anchor.Storage
	Health(ctx context.Context) error
	Close(ctx context.Context) error
}

// RegistryTransport is a registry.Transport holding a connection.
type RegistryTransport interface {
	registry.Transport
	Close()
}

// Backends constructs the collaborators a command talks to.
type Backends struct {
	Storage  func(cfg ipfs.Config, logger *zap.Logger) (StorageClient, error)
	Registry func(ctx context.Context, rpcURL string) (RegistryTransport, error)
}

// DefaultBackends talks to a Kubo node and an Ethereum JSON-RPC node.
func DefaultBackends() Backends {
	return Backends{
		Storage: func(cfg ipfs.Config, logger *zap.Logger) (StorageClient, error) {
			return ipfs.NewClient(cfg, logger)
		},
		Registry: func(ctx context.Context, rpcURL string) (RegistryTransport, error) {
			return registry.DialRPC(ctx, rpcURL)
		},
	}
}

// BuildInfo is version metadata populated via -ldflags at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// UsageError reports a malformed command line.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

type globalFlags struct {
	ipfsNode   string
	ethNode    string
	contract   string
	account    string
	configPath string
	envFile    string
	verbose    int
}

// NewRootCommand builds the cidreg command tree.
func NewRootCommand(backends Backends, build BuildInfo) *cobra.Command {
	flags := &globalFlags{}
	defaults := config.DefaultConfig()

	root := &cobra.Command{
		Use:   "cidreg",
		Short: "Publish files to IPFS and pin their CID in an on-chain registry",
		Long: `cidreg uploads a file to an IPFS node and records the resulting content
identifier in a single-slot registry contract. resolve reads the registry
back and downloads the file it points to.

Settings come from ~/.cidreg/config.yaml, then a .env file and CIDREG_*
environment variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.ipfsNode, "ipfs-node", "i", defaults.Storage.APIURL, "IPFS node RPC API URL")
	pf.StringVarP(&flags.ethNode, "eth-node", "e", defaults.Registry.RPCURL, "Ethereum node JSON-RPC URL")
	pf.StringVarP(&flags.contract, "contract", "c", defaults.Registry.Contract, "registry contract address")
	pf.StringVarP(&flags.account, "account", "a", "", "account that sends registry transactions")
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.cidreg/config.yaml)")
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file with CIDREG_* variables (falls back to ~/.cidreg/.env)")
	pf.CountVarP(&flags.verbose, "verbose", "v", "increase log verbosity (-v info, -vv debug)")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	root.AddCommand(
		newPublishCommand(backends, flags),
		newResolveCommand(backends, flags),
		newStatusCommand(backends, flags),
		newVersionCommand(build),
	)
	return root
}

// Execute runs cmd, reports any error on stderr and returns the process
// exit code.
func Execute(ctx context.Context, cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return errors.ExitOK
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)

	var usage *UsageError
	if stderrors.As(err, &usage) {
		return errors.ExitUsage
	}
	return errors.ExitCode(err)
}

// exactArgs is cobra.ExactArgs reporting a UsageError.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}

// session is the resolved configuration of one command invocation.
type session struct {
	cfg    *config.Config
	logger *logging.ColoredLogger
}

// loadSession merges defaults, the config file, the environment and the
// flags that were set explicitly, in that order of precedence.
func loadSession(cmd *cobra.Command, flags *globalFlags) (*session, error) {
	path, optional := flags.configPath, false
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path, optional = p, true
	}

	cfg, err := config.Load(path, optional)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	envFile := flags.envFile
	if !changed("env-file") {
		envFile, err = defaultEnvFile(envFile)
		if err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadEnv(envFile); err != nil {
		return nil, err
	}

	if changed("ipfs-node") {
		cfg.Storage.APIURL = flags.ipfsNode
	}
	if changed("eth-node") {
		cfg.Registry.RPCURL = flags.ethNode
	}
	if changed("contract") {
		cfg.Registry.Contract = flags.contract
	}
	if changed("account") {
		cfg.Registry.Account = flags.account
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, stderrors.Join(errs...)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, errors.NewValidationError("logging.level", err.Error(), cfg.Logging.Level)
	}
	if changed("verbose") {
		level = logging.LevelFromVerbosity(flags.verbose)
	}

	logger, err := logging.NewLogger(logging.Options{
		Level:        level,
		Format:       cfg.Logging.Format,
		OutputFile:   cfg.Logging.OutputFile,
		Writer:       cmd.ErrOrStderr(),
		EnableColors: cfg.Logging.Format == logging.FormatConsole && isTerminal(cmd.ErrOrStderr()),
	})
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, logger: logger}, nil
}

// defaultEnvFile prefers local in the working directory and falls back to
// ~/.cidreg/.env when it does not exist.
func defaultEnvFile(local string) (string, error) {
	if _, err := os.Stat(local); !stderrors.Is(err, fs.ErrNotExist) {
		return local, nil
	}
	return config.DefaultEnvFile()
}

func (s *session) close() {
	_ = s.logger.Close()
}

// dialRegistry connects to the chain and binds the registry contract.
func (s *session) dialRegistry(ctx context.Context, backends Backends) (*registry.Handle, RegistryTransport, error) {
	transport, err := backends.Registry(ctx, s.cfg.Registry.RPCURL)
	if err != nil {
		return nil, nil, errors.NewRegistryError("dial", err)
	}

	h, err := registry.Bind(transport, s.cfg.Registry.Contract,
		registry.WithPollInterval(s.cfg.Registry.ReceiptPollInterval),
		registry.WithLogger(s.logger.For(logging.ComponentRegistry)),
	)
	if err != nil {
		transport.Close()
		return nil, nil, err
	}
	return h, transport, nil
}

func (s *session) openStorage(backends Backends) (StorageClient, error) {
	store, err := backends.Storage(s.cfg.IPFSConfig(), s.logger.For(logging.ComponentStorage))
	if err != nil {
		return nil, errors.NewStorageError("connect", err)
	}
	return store, nil
}
