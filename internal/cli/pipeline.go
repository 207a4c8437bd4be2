package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/soyeahso/parley/endpoint"
	"github.com/soyeahso/parley/hooks"
	"github.com/soyeahso/parley/internal/config"
	"github.com/soyeahso/parley/internal/store"
	"github.com/soyeahso/parley/internal/telemetry"
	"github.com/soyeahso/parley/tracker"
)

// runtime is what the endpoint pipeline produces for a command.
type runtime struct {
	endpointsFile string
	endpoints     endpoint.Available
	manager       any
	trackers      tracker.Store

	telemetry *telemetry.Provider
	closers   []io.Closer
}

// prepare runs the plugin hooks in order: configure_commandline,
// init_telemetry, read_endpoints_and_set_env_vars, load_manager,
// update_endpoint_config per endpoint, then get_auth_retry_wrapper around
// the tracker store.
func prepare(ctx context.Context, cmd *cobra.Command, args []string, mgr *hooks.Manager) (rt *runtime, err error) {
	rt = &runtime{endpointsFile: resolveEndpointsFile()}
	defer func() {
		if err != nil {
			rt.Close(ctx)
			rt = nil
		}
	}()

	override, err := mgr.ConfigureCommandline(hooks.NewCommandLine(cmd, args))
	if err != nil {
		return rt, err
	}
	if override != "" {
		log.Debug().Str("endpoints", override).Msg("endpoints file set by plugin")
		rt.endpointsFile = override
	}

	rt.telemetry, err = telemetry.NewProvider(ctx, cfg.Telemetry)
	if err != nil {
		return rt, fmt.Errorf("telemetry: %w", err)
	}
	ctx, span := rt.telemetry.Tracer().Start(ctx, "parley.prepare")
	defer span.End()

	if err := mgr.InitTelemetry(ctx, rt.endpointsFile); err != nil {
		return rt, err
	}
	if err := mgr.ReadEndpointsAndSetEnvVars(ctx, rt.endpointsFile); err != nil {
		return rt, err
	}

	// read after the hook above so variables it sets are expanded
	rt.endpoints, err = endpoint.Read(rt.endpointsFile)
	if err != nil {
		return rt, err
	}

	rt.manager, err = mgr.LoadManager(ctx)
	if err != nil {
		return rt, err
	}
	for _, section := range endpoint.Sections {
		ec := rt.endpoints.Get(section)
		if ec == nil {
			continue
		}
		updated, err := mgr.UpdateEndpointConfig(ec, rt.manager)
		if err != nil {
			return rt, fmt.Errorf("endpoint %s: %w", section, err)
		}
		rt.endpoints.Set(section, updated)
	}

	base, err := store.Create(ctx, rt.endpoints.TrackerStore, log)
	if err != nil {
		return rt, err
	}
	if c, ok := base.(io.Closer); ok {
		rt.closers = append(rt.closers, c)
	}
	rt.trackers = mgr.WrapTrackerStore(base)

	log.Debug().
		Str("endpoints", rt.endpointsFile).
		Int("configured", len(rt.endpoints.Map())).
		Msg("endpoint pipeline ready")
	return rt, nil
}

// Close releases stores and flushes telemetry.
func (rt *runtime) Close(ctx context.Context) error {
	var errs []error
	for _, c := range rt.closers {
		errs = append(errs, c.Close())
	}
	if rt.telemetry != nil {
		errs = append(errs, rt.telemetry.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// resolveEndpointsFile applies flag, then config (which carries env
// overrides), then the default.
func resolveEndpointsFile() string {
	if endpointsFile != "" {
		return endpointsFile
	}
	if cfg.Endpoints != "" {
		return cfg.Endpoints
	}
	return config.DefaultEndpointsFile
}
