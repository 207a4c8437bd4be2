package plugin

import "github.com/soyeahso/parley/internal/logging"

// reset returns the package to its uninitialised state.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	result = Result{}
	locators = nil
	rootLog = logging.New(nil, "silent")
}

// unprovide drops a linked provider registered by a test.
func unprovide(name string) {
	providersMu.Lock()
	defer providersMu.Unlock()
	delete(providers, name)
}
