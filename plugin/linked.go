package plugin

import (
	"fmt"
	"sync"
)

var (
	providersMu sync.RWMutex
	providers   = make(map[string]InitFunc)
)

// Provide makes a plugin linked into the binary discoverable by name. It is
// meant to be called from the plugin package's init function, so that a
// blank import is all a distribution needs:
//
//	import _ "example.com/parley-plus"
//
// Provide panics if fn is nil or name is provided twice.
func Provide(name string, fn InitFunc) {
	providersMu.Lock()
	defer providersMu.Unlock()

	if fn == nil {
		panic("plugin: Provide init func is nil")
	}
	if _, dup := providers[name]; dup {
		panic(fmt.Sprintf("plugin: Provide called twice for %s", name))
	}
	providers[name] = fn
}

// LinkedLocator finds plugins registered with Provide.
type LinkedLocator struct{}

func (LinkedLocator) Locate(name string) (Candidate, error) {
	providersMu.RLock()
	defer providersMu.RUnlock()

	fn, ok := providers[name]
	if !ok {
		return Candidate{}, ErrPluginAbsent
	}
	return Candidate{Source: "linked", Init: fn}, nil
}
