package tracker

import "context"

// Store persists trackers. Implementations must be safe for concurrent use.
type Store interface {
	// Save records t. Events already stored are not duplicated.
	Save(ctx context.Context, t *Tracker) error

	// Retrieve returns the tracker for sender, or nil if none was saved.
	Retrieve(ctx context.Context, senderID string) (*Tracker, error)

	// Keys lists the sender IDs with a saved tracker.
	Keys(ctx context.Context) ([]string, error)
}
