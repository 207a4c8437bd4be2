// Package plugin discovers the optional parley_plus package and exposes the
// process-wide hook registry it registers into.
//
// Discovery is a capability probe. Each [Locator] either resolves the
// well-known name to an [InitFunc] or reports [ErrPluginAbsent]. Absence is
// the normal "no plugin installed" outcome and is not an error for callers
// of [Manager]. A plugin that is present but cannot be loaded or fails
// to initialise is returned as a [*LoadError].
package plugin

import (
	"errors"
	"fmt"

	"github.com/soyeahso/parley/hooks"
)

// WellKnownName is the name the optional plugin package is discovered by.
const WellKnownName = "parley_plus"

// InitSymbol is the entry point a shared-object plugin must export.
const InitSymbol = "InitHooks"

// InitFunc is a plugin's initialization entry point. It registers zero or
// more hook implementations on m.
type InitFunc func(m *hooks.Manager) error

// ErrPluginAbsent reports that a locator found no plugin by the given name.
var ErrPluginAbsent = errors.New("plugin not installed")

// LoadError reports a plugin that exists but could not be loaded or
// initialised.
type LoadError struct {
	Name   string
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("plugin %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("plugin %s (%s): %v", e.Name, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Candidate is a located plugin ready to be initialised.
type Candidate struct {
	Source string
	Init   InitFunc
}

// Locator resolves a plugin name. It returns ErrPluginAbsent when nothing
// by that name is installed, and any other error when something is
// installed but unusable.
type Locator interface {
	Locate(name string) (Candidate, error)
}

// Status tags the outcome of discovery.
type Status int

const (
	StatusAbsent Status = iota
	StatusLoaded
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusLoaded:
		return "loaded"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result describes what discovery found.
type Result struct {
	Name   string
	Status Status
	Source string
}
