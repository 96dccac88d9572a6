package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DeBrosOfficial/cidreg/pkg/errors"
)

func newStatusCommand(backends Backends, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the IPFS and Ethereum nodes are reachable",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd, flags)
			if err != nil {
				return err
			}
			defer s.close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := s.openStorage(backends)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			if err := store.Health(ctx); err != nil {
				return errors.NewStorageError("health", err)
			}
			fmt.Fprintf(out, "IPFS node:     %s ok\n", s.cfg.Storage.APIURL)

			reg, transport, err := s.dialRegistry(ctx, backends)
			if err != nil {
				return err
			}
			defer transport.Close()

			chainID, err := transport.ChainID(ctx)
			if err != nil {
				return errors.NewRegistryError("chainId", err)
			}
			fmt.Fprintf(out, "Ethereum node: %s ok (chain id %s)\n", s.cfg.Registry.RPCURL, chainID)
			fmt.Fprintf(out, "Registry:      %s\n", reg.Address().Hex())
			return nil
		},
	}
}
