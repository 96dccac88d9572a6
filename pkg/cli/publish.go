package cli

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/cidreg/pkg/anchor"
	"github.com/DeBrosOfficial/cidreg/pkg/errors"
	"github.com/DeBrosOfficial/cidreg/pkg/hexaddr"
	"github.com/DeBrosOfficial/cidreg/pkg/logging"
)

func newPublishCommand(backends Backends, flags *globalFlags) *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "publish <file>",
		Short: "Upload a file to IPFS and record its CID in the registry",
		Long: `Upload a file to IPFS and record its CID in the registry.

Prints the CID and then the registry transaction hash, one per line.
If the registry update fails the file stays on IPFS; running publish
again is safe and yields the same CID.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := checkRegularFile(path); err != nil {
				return err
			}

			s, err := loadSession(cmd, flags)
			if err != nil {
				return err
			}
			defer s.close()

			account, err := requireAccount(s)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := s.openStorage(backends)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			reg, transport, err := s.dialRegistry(ctx, backends)
			if err != nil {
				return err
			}
			defer transport.Close()

			opts := append(s.cfg.PublishOptions(), anchor.WithPublishLogger(s.logger.For(logging.ComponentAnchor)))
			if wait {
				opts = append(opts, anchor.WithReceiptWait())
			}

			out, err := anchor.Publish(ctx, reg, account, store, path, opts...)
			if err != nil {
				s.logger.ComponentDebug(logging.ComponentCLI, "Publish failed", zap.String("path", path), zap.Error(err))
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), out.CID)
			fmt.Fprintln(cmd.OutOrStdout(), out.TxHash.Hex())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "wait until the registry transaction is mined")
	return cmd
}

// checkRegularFile rejects paths that do not exist or are not regular files
// before any node is contacted.
func checkRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.NewIOError(path, err)
	}
	if !info.Mode().IsRegular() {
		return errors.NewIOError(path, fmt.Errorf("not a regular file"))
	}
	return nil
}

func requireAccount(s *session) (common.Address, error) {
	if s.cfg.Registry.Account == "" {
		return common.Address{}, errors.NewValidationError("account", "required; pass --account or set registry.account", nil)
	}
	return hexaddr.ParseAddress(s.cfg.Registry.Account)
}
