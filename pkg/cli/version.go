package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand(build BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  exactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cidreg %s", build.Version)
			if build.Commit != "" {
				fmt.Fprintf(out, " (commit %s)", build.Commit)
			}
			if build.Date != "" {
				fmt.Fprintf(out, " built %s", build.Date)
			}
			fmt.Fprintln(out)
		},
	}
}
