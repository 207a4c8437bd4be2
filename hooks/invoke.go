package hooks

import (
	"context"
	"fmt"
	"reflect"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/soyeahso/parley/endpoint"
	"github.com/soyeahso/parley/tracker"
)

const tracerName = "github.com/soyeahso/parley/hooks"

// HookError reports a failure inside one plugin's implementation.
type HookError struct {
	Point  Point
	Plugin string
	Err    error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("hooks: %s (%s): %v", e.Point, e.Plugin, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

// begin snapshots point's implementations and opens a span for the call.
func (m *Manager) begin(ctx context.Context, point Point) (context.Context, trace.Span, []entry) {
	entries := m.entries(point)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.plugin
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "hook."+string(point),
		trace.WithAttributes(
			attribute.String("hook.point", string(point)),
			attribute.StringSlice("hook.plugins", names),
		),
	)
	if len(entries) > 0 {
		m.log.Debug().Str("point", string(point)).Strs("plugins", names).Msg("invoking hook")
	}
	return ctx, span, entries
}

func (m *Manager) fail(span trace.Span, point Point, plugin string, err error) error {
	herr := &HookError{Point: point, Plugin: plugin, Err: err}
	span.RecordError(herr)
	span.SetStatus(codes.Error, herr.Error())
	m.log.Warn().Err(err).Str("point", string(point)).Str("plugin", plugin).Msg("hook failed")
	return herr
}

// RefineCLI lets every plugin add commands to root.
func (m *Manager) RefineCLI(root *cobra.Command, parents []*pflag.FlagSet) {
	_, span, entries := m.begin(context.Background(), RefineCLI)
	defer span.End()

	for _, e := range entries {
		e.impl.(CLIRefiner).RefineCLI(root, parents)
	}
}

// VersionInfo collects every plugin's (name, version) pair.
func (m *Manager) VersionInfo() []VersionInfo {
	_, span, entries := m.begin(context.Background(), GetVersionInfo)
	defer span.End()

	out := make([]VersionInfo, 0, len(entries))
	for _, e := range entries {
		name, version := e.impl.(VersionReporter).VersionInfo()
		out = append(out, VersionInfo{Name: name, Version: version})
	}
	return out
}

// ConfigureCommandline calls every implementation and returns the first
// non-empty value. The first error stops the chain.
func (m *Manager) ConfigureCommandline(cl CommandLine) (string, error) {
	_, span, entries := m.begin(context.Background(), ConfigureCommandline)
	defer span.End()

	var result string
	for _, e := range entries {
		v, err := e.impl.(CommandlineConfigurer).ConfigureCommandline(cl)
		if err != nil {
			return "", m.fail(span, ConfigureCommandline, e.plugin, err)
		}
		if result == "" {
			result = v
		}
	}
	return result, nil
}

// InitTelemetry fans out to every implementation. The first error stops
// the fan-out.
func (m *Manager) InitTelemetry(ctx context.Context, endpointsFile string) error {
	ctx, span, entries := m.begin(ctx, InitTelemetry)
	defer span.End()

	for _, e := range entries {
		if err := e.impl.(TelemetryInitializer).InitTelemetry(ctx, endpointsFile); err != nil {
			return m.fail(span, InitTelemetry, e.plugin, err)
		}
	}
	return nil
}

// ReadEndpointsAndSetEnvVars fans out to every implementation. The first
// error stops the fan-out.
func (m *Manager) ReadEndpointsAndSetEnvVars(ctx context.Context, endpointsFile string) error {
	ctx, span, entries := m.begin(ctx, ReadEndpointsAndSetEnvVars)
	defer span.End()

	for _, e := range entries {
		if err := e.impl.(EndpointsReader).ReadEndpointsAndSetEnvVars(ctx, endpointsFile); err != nil {
			return m.fail(span, ReadEndpointsAndSetEnvVars, e.plugin, err)
		}
	}
	return nil
}

// LoadManager calls every implementation and returns the first non-nil
// manager, or nil when no plugin provides one. A typed nil pointer counts
// as nil.
func (m *Manager) LoadManager(ctx context.Context) (any, error) {
	ctx, span, entries := m.begin(ctx, LoadManager)
	defer span.End()

	var result any
	for _, e := range entries {
		mgr, err := e.impl.(ManagerLoader).LoadManager(ctx)
		if err != nil {
			return nil, m.fail(span, LoadManager, e.plugin, err)
		}
		if result == nil && !isNil(mgr) {
			result = mgr
		}
	}
	return result, nil
}

// UpdateEndpointConfig chains cfg through every implementation: each one
// receives the previous result. A nil result leaves the config unchanged.
// With no implementations cfg is returned as is.
func (m *Manager) UpdateEndpointConfig(cfg *endpoint.Config, manager any) (*endpoint.Config, error) {
	_, span, entries := m.begin(context.Background(), UpdateEndpointConfig)
	defer span.End()

	current := cfg
	for _, e := range entries {
		next, err := e.impl.(EndpointConfigUpdater).UpdateEndpointConfig(current, manager)
		if err != nil {
			return nil, m.fail(span, UpdateEndpointConfig, e.plugin, err)
		}
		if next != nil {
			current = next
		}
	}
	return current, nil
}

// WrapTrackerStore chains s through every implementation, so the last
// registered wrapper is outermost. A nil result, typed or not, keeps the
// previous store.
func (m *Manager) WrapTrackerStore(s tracker.Store) tracker.Store {
	_, span, entries := m.begin(context.Background(), GetAuthRetryWrapper)
	defer span.End()

	current := s
	for _, e := range entries {
		if wrapped := e.impl.(AuthRetryWrapper).WrapTrackerStore(current); !isNil(wrapped) {
			current = wrapped
		}
	}
	return current
}

// isNil reports whether v is nil or an interface holding a nil pointer,
// map, slice, chan or func.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
