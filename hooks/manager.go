package hooks

import (
	"errors"
	"fmt"
	"sync"

	"github.com/soyeahso/parley/internal/logging"
)

// Manager holds, per extension point, the implementations registered by
// plugins, in registration order. It is safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	plugins []Plugin
	byPoint map[Point][]entry
	log     *logging.Logger
}

type entry struct {
	plugin string
	impl   Plugin
}

// NewManager creates an empty manager bound to the fixed set of points.
func NewManager(log *logging.Logger) *Manager {
	return &Manager{
		byPoint: make(map[Point][]entry, len(AllPoints)),
		log:     log.Sub("hooks"),
	}
}

// Register adds p to every extension point whose interface it implements.
func (m *Manager) Register(p Plugin) error {
	if p == nil {
		return errors.New("hooks: nil plugin")
	}
	name := p.Name()
	if name == "" {
		return errors.New("hooks: plugin has empty name")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.plugins {
		if existing.Name() == name {
			return fmt.Errorf("hooks: plugin already registered: %s", name)
		}
	}
	m.plugins = append(m.plugins, p)

	var points []string
	for _, point := range AllPoints {
		if implements(p, point) {
			m.byPoint[point] = append(m.byPoint[point], entry{plugin: name, impl: p})
			points = append(points, string(point))
		}
	}

	m.log.Debug().Str("plugin", name).Strs("points", points).Msg("plugin registered")
	return nil
}

// Unregister removes the named plugin from every extension point.
func (m *Manager) Unregister(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.plugins[:0]
	for _, p := range m.plugins {
		if p.Name() != name {
			kept = append(kept, p)
		}
	}
	m.plugins = kept

	for point, entries := range m.byPoint {
		filtered := make([]entry, 0, len(entries))
		for _, e := range entries {
			if e.plugin != name {
				filtered = append(filtered, e)
			}
		}
		m.byPoint[point] = filtered
	}
}

// Count returns the number of implementations registered for point.
func (m *Manager) Count(point Point) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byPoint[point])
}

// Implementations returns plugin names for point in call order.
func (m *Manager) Implementations(point Point) []string {
	entries := m.entries(point)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.plugin
	}
	return names
}

// Points returns the extension points with at least one implementation,
// in declaration order.
func (m *Manager) Points() []Point {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Point
	for _, point := range AllPoints {
		if len(m.byPoint[point]) > 0 {
			out = append(out, point)
		}
	}
	return out
}

// Plugins returns registered plugin names in registration order.
func (m *Manager) Plugins() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.plugins))
	for i, p := range m.plugins {
		names[i] = p.Name()
	}
	return names
}

// entries snapshots the implementations of point so hooks may register or
// unregister while being dispatched.
func (m *Manager) entries(point Point) []entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entry, len(m.byPoint[point]))
	copy(out, m.byPoint[point])
	return out
}
