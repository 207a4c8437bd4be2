package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/soyeahso/parley/hooks"
	"github.com/soyeahso/parley/plugin"
)

func newPluginsCmd(mgr *hooks.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "Show plugin discovery and registered hook implementations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if res, ok := plugin.Discovered(); ok {
				line := fmt.Sprintf("Plugin:  %s (%s)", res.Name, res.Status)
				if res.Source != "" {
					line += " from " + res.Source
				}
				fmt.Fprintln(out, line)
			} else {
				fmt.Fprintf(out, "Plugin:  %s (not probed)\n", plugin.WellKnownName)
			}
			if names := mgr.Plugins(); len(names) > 0 {
				fmt.Fprintf(out, "Loaded:  %s\n", strings.Join(names, ", "))
			}
			fmt.Fprintln(out)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "HOOK\tIMPLEMENTATIONS\tPURPOSE")
			for _, p := range hooks.AllPoints {
				impls := "-"
				if names := mgr.Implementations(p); len(names) > 0 {
					impls = strings.Join(names, ",")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p, impls, p.Description())
			}
			return tw.Flush()
		},
	}
}
