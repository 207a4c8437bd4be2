package plugin

import (
	"errors"

	"github.com/soyeahso/parley/hooks"
	"github.com/soyeahso/parley/internal/logging"
)

// Discover probes locators in order for the plugin called name and, if one
// finds it, runs its InitFunc on m. The first locator that does not report
// ErrPluginAbsent decides the outcome. Only absence is tolerated: locator
// failures and init errors come back as *LoadError.
func Discover(m *hooks.Manager, name string, log *logging.Logger, locators ...Locator) (Result, error) {
	for _, loc := range locators {
		cand, err := loc.Locate(name)
		if errors.Is(err, ErrPluginAbsent) {
			continue
		}
		if err != nil {
			return Result{}, &LoadError{Name: name, Err: err}
		}

		if err := cand.Init(m); err != nil {
			return Result{}, &LoadError{Name: name, Source: cand.Source, Err: err}
		}
		log.Info().
			Str("plugin", name).
			Str("source", cand.Source).
			Strs("registered", m.Plugins()).
			Msg("plugin loaded")
		return Result{Name: name, Status: StatusLoaded, Source: cand.Source}, nil
	}

	log.Debug().Str("plugin", name).Msg("no plugin installed")
	return Result{Name: name, Status: StatusAbsent}, nil
}
