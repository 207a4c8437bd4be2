package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/parley/endpoint"
	"github.com/soyeahso/parley/internal/logging"
	"github.com/soyeahso/parley/internal/store"
	"github.com/soyeahso/parley/tracker"
)

func testManager() *Manager {
	return NewManager(logging.New(nil, "silent"))
}

// fullPlugin implements every extension point and records calls.
type fullPlugin struct {
	name    string
	calls   *[]string
	err     error
	cmdline string
	manager any
	header  string
}

func (p *fullPlugin) Name() string { return p.name }

func (p *fullPlugin) record(point Point) {
	if p.calls != nil {
		*p.calls = append(*p.calls, p.name+":"+string(point))
	}
}

func (p *fullPlugin) RefineCLI(root *cobra.Command, parents []*pflag.FlagSet) {
	p.record(RefineCLI)
	cmd := &cobra.Command{Use: p.name}
	for _, fs := range parents {
		cmd.Flags().AddFlagSet(fs)
	}
	root.AddCommand(cmd)
}

func (p *fullPlugin) VersionInfo() (string, string) {
	p.record(GetVersionInfo)
	return p.name + "-plugin", "1.2.3"
}

func (p *fullPlugin) ConfigureCommandline(CommandLine) (string, error) {
	p.record(ConfigureCommandline)
	return p.cmdline, p.err
}

func (p *fullPlugin) InitTelemetry(context.Context, string) error {
	p.record(InitTelemetry)
	return p.err
}

func (p *fullPlugin) ReadEndpointsAndSetEnvVars(context.Context, string) error {
	p.record(ReadEndpointsAndSetEnvVars)
	return p.err
}

func (p *fullPlugin) LoadManager(context.Context) (any, error) {
	p.record(LoadManager)
	return p.manager, p.err
}

func (p *fullPlugin) UpdateEndpointConfig(cfg *endpoint.Config, manager any) (*endpoint.Config, error) {
	p.record(UpdateEndpointConfig)
	if p.err != nil {
		return nil, p.err
	}
	out := cfg.Copy()
	if out.Headers == nil {
		out.Headers = map[string]string{}
	}
	out.Headers[p.header] = p.name
	if s, ok := manager.(string); ok {
		out.Headers["manager"] = s
	}
	return out, nil
}

func (p *fullPlugin) WrapTrackerStore(s tracker.Store) tracker.Store {
	p.record(GetAuthRetryWrapper)
	return &wrappedStore{Store: s, by: p.name}
}

type wrappedStore struct {
	tracker.Store
	by string
}

// versionOnly implements a single extension point.
type versionOnly struct{}

func (versionOnly) Name() string                  { return "acme" }
func (versionOnly) VersionInfo() (string, string) { return "acme-plugin", "1.2.3" }

// --- contract ---

func TestAllPoints(t *testing.T) {
	require.Len(t, AllPoints, 8)
	seen := map[Point]bool{}
	for _, p := range AllPoints {
		assert.True(t, p.Valid(), p)
		assert.NotEmpty(t, p.Description(), p)
		assert.False(t, seen[p], "duplicate point %s", p)
		seen[p] = true
	}
	assert.False(t, Point("bogus").Valid())
	assert.Empty(t, Point("bogus").Description())
}

func TestCommandLine(t *testing.T) {
	var endpoints string
	root := &cobra.Command{Use: "parley"}
	root.PersistentFlags().String("log-level", "warn", "")
	sub := &cobra.Command{Use: "endpoints", RunE: func(*cobra.Command, []string) error { return nil }}
	sub.Flags().StringVar(&endpoints, "endpoints", "endpoints.yml", "")
	root.AddCommand(sub)
	root.SetArgs([]string{"endpoints", "--endpoints", "prod.yml", "--log-level", "debug", "extra"})

	cmd, err := root.ExecuteC()
	require.NoError(t, err)

	args := []string{"extra"}
	cl := NewCommandLine(cmd, args)
	args[0] = "mutated"

	assert.Equal(t, "parley endpoints", cl.Command())
	assert.Equal(t, []string{"extra"}, cl.Args())
	v, ok := cl.Flag("endpoints")
	assert.True(t, ok)
	assert.Equal(t, "prod.yml", v)
	v, ok = cl.Flag("log-level")
	assert.True(t, ok)
	assert.Equal(t, "debug", v)
	assert.True(t, cl.Changed("endpoints"))
	_, ok = cl.Flag("missing")
	assert.False(t, ok)

	var zero CommandLine
	_, ok = zero.Flag("endpoints")
	assert.False(t, ok)
	assert.False(t, zero.Changed("endpoints"))
}

// --- registration ---

func TestManager_Register(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Register(&fullPlugin{name: "full"}))

	for _, p := range AllPoints {
		assert.Equal(t, 1, m.Count(p), p)
		assert.Equal(t, []string{"full"}, m.Implementations(p))
	}
	assert.Equal(t, AllPoints, m.Points())
	assert.Equal(t, []string{"full"}, m.Plugins())
}

func TestManager_Register_PartialPlugin(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Register(versionOnly{}))

	assert.Equal(t, []Point{GetVersionInfo}, m.Points())
	assert.Equal(t, 0, m.Count(RefineCLI))
	assert.Equal(t, 1, m.Count(GetVersionInfo))
}

func TestManager_Register_Errors(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Register(&fullPlugin{name: "dup"}))

	err := m.Register(&fullPlugin{name: "dup"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	assert.Error(t, m.Register(nil))
	assert.Error(t, m.Register(&fullPlugin{}))
	assert.Equal(t, []string{"dup"}, m.Plugins())
}

func TestManager_Unregister(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Register(&fullPlugin{name: "a"}))
	require.NoError(t, m.Register(&fullPlugin{name: "b"}))

	m.Unregister("a")
	assert.Equal(t, []string{"b"}, m.Plugins())
	assert.Equal(t, []string{"b"}, m.Implementations(InitTelemetry))

	m.Unregister("missing")
	assert.Equal(t, []string{"b"}, m.Plugins())
}

// --- zero implementations are no-ops ---

func TestManager_Empty_NoOps(t *testing.T) {
	m := testManager()
	ctx := context.Background()

	for _, p := range AllPoints {
		assert.Equal(t, 0, m.Count(p))
	}
	assert.Empty(t, m.Points())

	root := &cobra.Command{Use: "parley"}
	m.RefineCLI(root, []*pflag.FlagSet{pflag.NewFlagSet("common", pflag.ContinueOnError)})
	assert.Empty(t, root.Commands())

	assert.Empty(t, m.VersionInfo())

	v, err := m.ConfigureCommandline(CommandLine{})
	require.NoError(t, err)
	assert.Empty(t, v)

	assert.NoError(t, m.InitTelemetry(ctx, ""))
	assert.NoError(t, m.ReadEndpointsAndSetEnvVars(ctx, "endpoints.yml"))

	mgr, err := m.LoadManager(ctx)
	require.NoError(t, err)
	assert.Nil(t, mgr)

	cfg := &endpoint.Config{URL: "http://x"}
	out, err := m.UpdateEndpointConfig(cfg, nil)
	require.NoError(t, err)
	assert.Same(t, cfg, out)

	s := store.NewInMemoryTrackerStore()
	assert.Same(t, s, m.WrapTrackerStore(s))
}

// --- invocation ---

func TestManager_VersionInfo(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Register(versionOnly{}))

	assert.Equal(t, []VersionInfo{{Name: "acme-plugin", Version: "1.2.3"}}, m.VersionInfo())
}

func TestManager_RefineCLI_AddsCommands(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Register(&fullPlugin{name: "train"}))

	common := pflag.NewFlagSet("common", pflag.ContinueOnError)
	common.String("endpoints", "endpoints.yml", "")

	root := &cobra.Command{Use: "parley"}
	m.RefineCLI(root, []*pflag.FlagSet{common})

	cmd, _, err := root.Find([]string{"train"})
	require.NoError(t, err)
	assert.Equal(t, "train", cmd.Name())
	assert.NotNil(t, cmd.Flags().Lookup("endpoints"))
}

func TestManager_RegistrationOrder(t *testing.T) {
	m := testManager()
	var calls []string
	require.NoError(t, m.Register(&fullPlugin{name: "first", calls: &calls}))
	require.NoError(t, m.Register(&fullPlugin{name: "second", calls: &calls}))

	require.NoError(t, m.InitTelemetry(context.Background(), ""))
	assert.Equal(t, []string{"first:init_telemetry", "second:init_telemetry"}, calls)
}

func TestManager_ConfigureCommandline_FirstNonEmpty(t *testing.T) {
	m := testManager()
	var calls []string
	require.NoError(t, m.Register(&fullPlugin{name: "quiet", calls: &calls}))
	require.NoError(t, m.Register(&fullPlugin{name: "a", calls: &calls, cmdline: "a.yml"}))
	require.NoError(t, m.Register(&fullPlugin{name: "b", calls: &calls, cmdline: "b.yml"}))

	v, err := m.ConfigureCommandline(CommandLine{})
	require.NoError(t, err)
	assert.Equal(t, "a.yml", v)
	assert.Len(t, calls, 3, "every implementation still runs")
}

func TestManager_LoadManager_FirstNonNil(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Register(&fullPlugin{name: "none"}))
	require.NoError(t, m.Register(&fullPlugin{name: "one", manager: "mgr-1"}))
	require.NoError(t, m.Register(&fullPlugin{name: "two", manager: "mgr-2"}))

	mgr, err := m.LoadManager(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mgr-1", mgr)
}

type vault struct{ addr string }

func TestManager_LoadManager_TypedNilSkipped(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Register(&fullPlugin{name: "typed-nil", manager: (*vault)(nil)}))
	require.NoError(t, m.Register(&fullPlugin{name: "real", manager: &vault{addr: "v:8200"}}))

	mgr, err := m.LoadManager(context.Background())
	require.NoError(t, err)
	v, ok := mgr.(*vault)
	require.True(t, ok)
	require.NotNil(t, v)
	assert.Equal(t, "v:8200", v.addr)
}

func TestManager_UpdateEndpointConfig_Chains(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Register(&fullPlugin{name: "a", header: "X-A"}))
	require.NoError(t, m.Register(&fullPlugin{name: "b", header: "X-B"}))

	in := &endpoint.Config{URL: "http://actions"}
	out, err := m.UpdateEndpointConfig(in, "vault")
	require.NoError(t, err)

	assert.Equal(t, "a", out.Headers["X-A"])
	assert.Equal(t, "b", out.Headers["X-B"])
	assert.Equal(t, "vault", out.Headers["manager"])
	assert.Nil(t, in.Headers, "input config is not mutated")
}

func TestManager_WrapTrackerStore_Chains(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Register(&fullPlugin{name: "inner"}))
	require.NoError(t, m.Register(&fullPlugin{name: "outer"}))

	base := store.NewInMemoryTrackerStore()
	wrapped := m.WrapTrackerStore(base)

	outer, ok := wrapped.(*wrappedStore)
	require.True(t, ok)
	assert.Equal(t, "outer", outer.by)
	inner, ok := outer.Store.(*wrappedStore)
	require.True(t, ok)
	assert.Equal(t, "inner", inner.by)
	assert.Same(t, base, inner.Store)
}

// nilWrapper returns a typed nil store from the wrapper hook.
type nilWrapper struct{}

func (nilWrapper) Name() string { return "nil-wrapper" }

func (nilWrapper) WrapTrackerStore(tracker.Store) tracker.Store {
	var s *wrappedStore
	return s
}

func TestManager_WrapTrackerStore_TypedNilKeepsStore(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Register(nilWrapper{}))

	base := store.NewInMemoryTrackerStore()
	got := m.WrapTrackerStore(base)
	assert.Same(t, base, got)
	require.NoError(t, got.Save(context.Background(), tracker.New("alice")))
}

func TestIsNil(t *testing.T) {
	var p *vault
	var s tracker.Store
	assert.True(t, isNil(nil))
	assert.True(t, isNil(p))
	assert.True(t, isNil(s))
	assert.True(t, isNil(map[string]int(nil)))
	assert.False(t, isNil(&vault{}))
	assert.False(t, isNil("mgr"))
	assert.False(t, isNil(0))
}

func TestManager_HookError_StopsChain(t *testing.T) {
	m := testManager()
	boom := errors.New("boom")
	var calls []string
	require.NoError(t, m.Register(&fullPlugin{name: "bad", calls: &calls, err: boom}))
	require.NoError(t, m.Register(&fullPlugin{name: "good", calls: &calls}))

	err := m.ReadEndpointsAndSetEnvVars(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var herr *HookError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, ReadEndpointsAndSetEnvVars, herr.Point)
	assert.Equal(t, "bad", herr.Plugin)
	assert.Contains(t, err.Error(), "read_endpoints_and_set_env_vars (bad)")
	assert.Equal(t, []string{"bad:read_endpoints_and_set_env_vars"}, calls)

	_, err = m.ConfigureCommandline(CommandLine{})
	assert.ErrorIs(t, err, boom)
	_, err = m.LoadManager(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = m.UpdateEndpointConfig(&endpoint.Config{}, nil)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, m.InitTelemetry(context.Background(), ""), boom)
}

func TestManager_RegisterDuringDispatch(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Register(&registering{m: m}))

	require.NoError(t, m.InitTelemetry(context.Background(), ""))
	assert.Equal(t, []string{"registering", "late"}, m.Plugins())
}

type registering struct{ m *Manager }

func (r *registering) Name() string { return "registering" }

func (r *registering) InitTelemetry(context.Context, string) error {
	return r.m.Register(versionOnlyNamed("late"))
}

type versionOnlyNamed string

func (v versionOnlyNamed) Name() string                  { return string(v) }
func (v versionOnlyNamed) VersionInfo() (string, string) { return string(v), "0" }
