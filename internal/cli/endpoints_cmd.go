package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/soyeahso/parley/hooks"
)

func newEndpointsCmd(mgr *hooks.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "Resolve the endpoints file through plugin hooks and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := prepare(cmd.Context(), cmd, args, mgr)
			if err != nil {
				return err
			}
			defer rt.Close(cmd.Context())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", rt.endpointsFile)
			resolved := rt.endpoints.Map()
			if len(resolved) == 0 {
				fmt.Fprintln(out, "# no endpoints configured")
				return nil
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(resolved); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
