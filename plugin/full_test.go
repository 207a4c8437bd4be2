package plugin

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/soyeahso/parley/endpoint"
	"github.com/soyeahso/parley/hooks"
	"github.com/soyeahso/parley/tracker"
)

// fullPlugin implements every extension point with inert bodies.
type fullPlugin struct{}

func newFullPlugin() fullPlugin { return fullPlugin{} }

func (fullPlugin) Name() string { return "full" }

func (fullPlugin) RefineCLI(*cobra.Command, []*pflag.FlagSet) {}

func (fullPlugin) VersionInfo() (string, string) { return "full", "0.0.1" }

func (fullPlugin) ConfigureCommandline(hooks.CommandLine) (string, error) { return "", nil }

func (fullPlugin) InitTelemetry(context.Context, string) error { return nil }

func (fullPlugin) ReadEndpointsAndSetEnvVars(context.Context, string) error { return nil }

func (fullPlugin) LoadManager(context.Context) (any, error) { return nil, nil }

func (fullPlugin) UpdateEndpointConfig(cfg *endpoint.Config, _ any) (*endpoint.Config, error) {
	return cfg, nil
}

func (fullPlugin) WrapTrackerStore(s tracker.Store) tracker.Store { return s }
