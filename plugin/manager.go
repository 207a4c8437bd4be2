package plugin

import (
	"sync"

	"github.com/soyeahso/parley/hooks"
	"github.com/soyeahso/parley/internal/config"
	"github.com/soyeahso/parley/internal/logging"
)

// The process-wide registry moves from uninitialised to initialised on the
// first successful Manager call and never goes back.
var (
	mu       sync.Mutex
	instance *hooks.Manager
	result   Result
	rootLog  = logging.New(nil, "warn")
	locators []Locator
)

// SetLogger replaces the logger used by discovery. A nil logger discards
// output. It has no effect once the registry exists.
func SetLogger(l *logging.Logger) {
	if l == nil {
		l = logging.Nop()
	}
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		rootLog = l
	}
}

// SetLocators replaces the default locators. It has no effect once the
// registry exists.
func SetLocators(ls ...Locator) {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		locators = ls
	}
}

// DefaultLocators returns the linked-in locator followed by a shared-object
// locator over $PARLEY_HOME/plugins.
func DefaultLocators() []Locator {
	ls := []Locator{LinkedLocator{}}
	if paths, err := config.ResolvePaths(); err == nil {
		ls = append(ls, SharedObjectLocator{Dir: paths.Plugins})
	}
	return ls
}

// Manager returns the process-wide hook registry, building it and running
// discovery on first use. Every later call returns the same instance
// without probing again. A discovery failure is returned and nothing is
// cached, so a later call probes again.
func Manager() (*hooks.Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance, nil
	}

	ls := locators
	if ls == nil {
		ls = DefaultLocators()
	}

	m := hooks.NewManager(rootLog)
	res, err := Discover(m, WellKnownName, rootLog.Sub("plugins"), ls...)
	if err != nil {
		return nil, err
	}

	instance, result = m, res
	return instance, nil
}

// Discovered reports the outcome of discovery. ok is false until Manager
// has succeeded.
func Discovered() (res Result, ok bool) {
	mu.Lock()
	defer mu.Unlock()
	return result, instance != nil
}
