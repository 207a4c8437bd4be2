// Package hooks declares the extension points an optional plugin may
// implement and the Manager that holds registered implementations.
//
// Each extension point is a separate interface, so a plugin opts in only
// to the points it cares about:
//
//	type acme struct{}
//
//	func (acme) Name() string { return "acme" }
//
//	func (acme) VersionInfo() (string, string) { return "acme-plugin", "1.2.3" }
//
// Registered with [Manager.Register], acme contributes to get_version_info
// and to nothing else. Implementations of the same point run in
// registration order.
package hooks

import (
	"context"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/soyeahso/parley/endpoint"
	"github.com/soyeahso/parley/tracker"
)

// Point identifies an extension point.
type Point string

// Extension points. The set is fixed; plugins cannot add new ones.
const (
	RefineCLI                  Point = "refine_cli"
	GetVersionInfo             Point = "get_version_info"
	ConfigureCommandline       Point = "configure_commandline"
	InitTelemetry              Point = "init_telemetry"
	ReadEndpointsAndSetEnvVars Point = "read_endpoints_and_set_env_vars"
	LoadManager                Point = "load_manager"
	UpdateEndpointConfig       Point = "update_endpoint_config"
	GetAuthRetryWrapper        Point = "get_auth_retry_wrapper"
)

// AllPoints lists every extension point in declaration order.
var AllPoints = []Point{
	RefineCLI,
	GetVersionInfo,
	ConfigureCommandline,
	InitTelemetry,
	ReadEndpointsAndSetEnvVars,
	LoadManager,
	UpdateEndpointConfig,
	GetAuthRetryWrapper,
}

var descriptions = map[Point]string{
	RefineCLI:                  "add CLI commands",
	GetVersionInfo:             "report plugin name and version",
	ConfigureCommandline:       "inspect parsed arguments, optionally return an endpoints file",
	InitTelemetry:              "set up plugin telemetry",
	ReadEndpointsAndSetEnvVars: "read endpoints and set environment variables",
	LoadManager:                "load the endpoint manager",
	UpdateEndpointConfig:       "update an endpoint config",
	GetAuthRetryWrapper:        "wrap a tracker store with auth retries",
}

// Description returns the one-line intent of p.
func (p Point) Description() string {
	return descriptions[p]
}

// Valid reports whether p is a declared extension point.
func (p Point) Valid() bool {
	_, ok := descriptions[p]
	return ok
}

// Plugin is the base interface every plugin implements.
type Plugin interface {
	// Name returns a unique name for the plugin.
	Name() string
}

// CLIRefiner adds commands to the CLI. root plays the role of the
// subcommand registry; parents are shared flag sets a new command can
// inherit with AddFlagSet.
type CLIRefiner interface {
	RefineCLI(root *cobra.Command, parents []*pflag.FlagSet)
}

// VersionReporter reports the plugin's identity for diagnostics.
type VersionReporter interface {
	VersionInfo() (name, version string)
}

// CommandlineConfigurer inspects the parsed command line. A non-empty
// result is a value the CLI should use, such as an endpoints file path.
type CommandlineConfigurer interface {
	ConfigureCommandline(cl CommandLine) (string, error)
}

// TelemetryInitializer sets up plugin telemetry. endpointsFile is "" when
// no endpoints file was given.
type TelemetryInitializer interface {
	InitTelemetry(ctx context.Context, endpointsFile string) error
}

// EndpointsReader reads extra endpoint configuration. It is expected to
// set process environment variables as a side effect.
type EndpointsReader interface {
	ReadEndpointsAndSetEnvVars(ctx context.Context, endpointsFile string) error
}

// ManagerLoader builds a plugin-defined manager later passed to
// EndpointConfigUpdater. A nil manager means "none".
type ManagerLoader interface {
	LoadManager(ctx context.Context) (any, error)
}

// EndpointConfigUpdater transforms an endpoint config.
type EndpointConfigUpdater interface {
	UpdateEndpointConfig(cfg *endpoint.Config, manager any) (*endpoint.Config, error)
}

// AuthRetryWrapper wraps a tracker store with authentication retries.
type AuthRetryWrapper interface {
	WrapTrackerStore(s tracker.Store) tracker.Store
}

// implements reports whether p opts in to point.
func implements(p Plugin, point Point) bool {
	var ok bool
	switch point {
	case RefineCLI:
		_, ok = p.(CLIRefiner)
	case GetVersionInfo:
		_, ok = p.(VersionReporter)
	case ConfigureCommandline:
		_, ok = p.(CommandlineConfigurer)
	case InitTelemetry:
		_, ok = p.(TelemetryInitializer)
	case ReadEndpointsAndSetEnvVars:
		_, ok = p.(EndpointsReader)
	case LoadManager:
		_, ok = p.(ManagerLoader)
	case UpdateEndpointConfig:
		_, ok = p.(EndpointConfigUpdater)
	case GetAuthRetryWrapper:
		_, ok = p.(AuthRetryWrapper)
	}
	return ok
}

// VersionInfo is one get_version_info result.
type VersionInfo struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// CommandLine is a read-only view of a parsed command line.
type CommandLine struct {
	command string
	args    []string
	flags   *pflag.FlagSet
}

// NewCommandLine captures cmd's parsed flags and positional args.
func NewCommandLine(cmd *cobra.Command, args []string) CommandLine {
	return CommandLine{
		command: cmd.CommandPath(),
		args:    slices.Clone(args),
		flags:   cmd.Flags(),
	}
}

// Command returns the full command path, e.g. "parley endpoints".
func (c CommandLine) Command() string { return c.command }

// Args returns a copy of the positional arguments.
func (c CommandLine) Args() []string { return slices.Clone(c.args) }

// Flag returns the value of a flag. ok is false if no such flag exists.
func (c CommandLine) Flag(name string) (value string, ok bool) {
	if c.flags == nil {
		return "", false
	}
	f := c.flags.Lookup(name)
	if f == nil {
		return "", false
	}
	return f.Value.String(), true
}

// Changed reports whether the flag was set explicitly.
func (c CommandLine) Changed(name string) bool {
	return c.flags != nil && c.flags.Changed(name)
}
