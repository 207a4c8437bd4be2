package store

import (
	"context"
	"sort"
	"sync"

	"github.com/soyeahso/parley/tracker"
)

// InMemoryTrackerStore keeps trackers in process memory.
type InMemoryTrackerStore struct {
	mu       sync.RWMutex
	trackers map[string]*tracker.Tracker
}

// NewInMemoryTrackerStore creates an empty in-memory store.
func NewInMemoryTrackerStore() *InMemoryTrackerStore {
	return &InMemoryTrackerStore{trackers: make(map[string]*tracker.Tracker)}
}

func (s *InMemoryTrackerStore) Save(_ context.Context, t *tracker.Tracker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackers[t.SenderID] = t.Clone()
	return nil
}

func (s *InMemoryTrackerStore) Retrieve(_ context.Context, senderID string) (*tracker.Tracker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trackers[senderID].Clone(), nil
}

func (s *InMemoryTrackerStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.trackers))
	for k := range s.trackers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
