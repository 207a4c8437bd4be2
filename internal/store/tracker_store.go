package store

import (
	"context"
	"fmt"

	"github.com/soyeahso/parley/endpoint"
	"github.com/soyeahso/parley/internal/logging"
	"github.com/soyeahso/parley/tracker"
)

// Tracker store types accepted in the tracker_store endpoint.
const (
	TypeInMemory = "in_memory"
	TypeSQL      = "sql"
)

var (
	_ tracker.Store = (*InMemoryTrackerStore)(nil)
	_ tracker.Store = (*SQLTrackerStore)(nil)
)

// Create builds the tracker store described by cfg. A nil cfg selects the
// in-memory store.
func Create(ctx context.Context, cfg *endpoint.Config, log *logging.Logger) (tracker.Store, error) {
	typ := ""
	if cfg != nil {
		typ = cfg.Type
	}

	switch typ {
	case "", TypeInMemory:
		log.Debug().Str("type", TypeInMemory).Msg("creating tracker store")
		return NewInMemoryTrackerStore(), nil
	case TypeSQL:
		path, ok := cfg.Kwarg("db")
		if !ok || path == "" {
			path = ":memory:"
		}
		log.Debug().Str("type", TypeSQL).Str("db", path).Msg("creating tracker store")
		db, err := Open(path, log)
		if err != nil {
			return nil, fmt.Errorf("tracker store: %w", err)
		}
		return NewSQLTrackerStore(db), nil
	default:
		return nil, fmt.Errorf("tracker store: unsupported type %q", typ)
	}
}
