package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/cidreg/pkg/anchor"
	"github.com/DeBrosOfficial/cidreg/pkg/logging"
)

func newResolveCommand(backends Backends, flags *globalFlags) *cobra.Command {
	var (
		output        string
		removePartial bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Download the file whose CID is stored in the registry",
		Long: `Download the file whose CID is stored in the registry.

The file is written to --output, or to a file named after the CID in the
current directory. Existing files are overwritten. Prints the CID.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			opts := append(s.cfg.ResolveOptions(), anchor.WithResolveLogger(s.logger.For(logging.ComponentAnchor)))
			if removePartial {
				opts = append(opts, anchor.WithRemovePartial())
			}

			cid, err := anchor.Resolve(ctx, reg, account, store, output, opts...)
			if err != nil {
				s.logger.ComponentDebug(logging.ComponentCLI, "Resolve failed", zap.String("output", output), zap.Error(err))
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cid)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file (default: the CID in the current directory)")
	cmd.Flags().BoolVar(&removePartial, "remove-partial", false, "delete the destination if the download fails midway")
	return cmd
}
