package plugin

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	goplugin "plugin"

	"github.com/soyeahso/parley/hooks"
)

// SharedObjectLocator finds plugins built with -buildmode=plugin as
// <Dir>/<name>.so. The object must export InitSymbol as a
// func(*hooks.Manager) error.
type SharedObjectLocator struct {
	Dir string
}

func (l SharedObjectLocator) Locate(name string) (Candidate, error) {
	if l.Dir == "" {
		return Candidate{}, ErrPluginAbsent
	}

	path := filepath.Join(l.Dir, name+".so")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Candidate{}, ErrPluginAbsent
		}
		return Candidate{}, err
	}

	p, err := goplugin.Open(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("open %s: %w", path, err)
	}
	sym, err := p.Lookup(InitSymbol)
	if err != nil {
		return Candidate{}, fmt.Errorf("lookup %s in %s: %w", InitSymbol, path, err)
	}

	var fn InitFunc
	switch v := sym.(type) {
	case func(*hooks.Manager) error:
		fn = v
	case *func(*hooks.Manager) error:
		fn = *v
	case *InitFunc:
		fn = *v
	default:
		return Candidate{}, fmt.Errorf("%s in %s has type %T, want func(*hooks.Manager) error", InitSymbol, path, sym)
	}
	if fn == nil {
		return Candidate{}, fmt.Errorf("%s in %s is nil", InitSymbol, path)
	}
	return Candidate{Source: path, Init: fn}, nil
}
