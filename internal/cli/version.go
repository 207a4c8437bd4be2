package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soyeahso/parley/hooks"
	"github.com/soyeahso/parley/internal/version"
)

func newVersionCmd(mgr *hooks.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of parley and its plugins",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, version.Info())
			for _, v := range mgr.VersionInfo() {
				fmt.Fprintf(out, "%s %s\n", v.Name, v.Version)
			}
		},
	}
}
