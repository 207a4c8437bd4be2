// Package cli implements the parley command line. Plugins extend it through
// the refine_cli hook.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/soyeahso/parley/hooks"
	"github.com/soyeahso/parley/internal/config"
	"github.com/soyeahso/parley/internal/logging"
	"github.com/soyeahso/parley/plugin"
)

var (
	cfgFile       string
	logLevel      string
	endpointsFile string

	// loaded in PersistentPreRunE
	paths config.Paths
	cfg   config.Config
	log   *logging.Logger
)

// parentFlagSets returns the flag sets shared by commands, including those
// plugins add through refine_cli.
func parentFlagSets() []*pflag.FlagSet {
	logFlags := pflag.NewFlagSet("logging", pflag.ContinueOnError)
	logFlags.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, silent)")

	epFlags := pflag.NewFlagSet("endpoints", pflag.ContinueOnError)
	epFlags.StringVar(&endpointsFile, "endpoints", "", "endpoints file (default from config, then "+config.DefaultEndpointsFile+")")

	return []*pflag.FlagSet{logFlags, epFlags}
}

func withParents(cmd *cobra.Command, parents []*pflag.FlagSet) *cobra.Command {
	for _, fs := range parents {
		cmd.Flags().AddFlagSet(fs)
	}
	return cmd
}

func newRootCmd(mgr *hooks.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parley",
		Short: "parley: conversational assistant toolkit",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}
			cfg, err = config.Load(paths.Config)
			if err != nil {
				return err
			}
			level := logLevel
			if level == "" {
				level = cfg.Logging.Level
			}
			log = logging.New(cmd.ErrOrStderr(), level)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.parley/config.yaml)")

	parents := parentFlagSets()
	cmd.AddCommand(withParents(newVersionCmd(mgr), parents[:1]))
	cmd.AddCommand(withParents(newPluginsCmd(mgr), parents[:1]))
	cmd.AddCommand(withParents(newEndpointsCmd(mgr), parents))
	cmd.AddCommand(newTrackerCmd(mgr, parents))
	cmd.AddCommand(newConfigCmd())

	mgr.RefineCLI(cmd, parents)
	return cmd
}

// Execute discovers plugins and runs the root command. A plugin that is
// installed but broken is a startup error.
func Execute() error {
	level := os.Getenv("PARLEY_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	plugin.SetLogger(logging.New(nil, level))

	mgr, err := plugin.Manager()
	if err != nil {
		return fmt.Errorf("loading plugins: %w", err)
	}
	return newRootCmd(mgr).Execute()
}
