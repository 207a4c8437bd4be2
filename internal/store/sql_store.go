package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/soyeahso/parley/tracker"
)

// SQLTrackerStore persists trackers in SQLite.
type SQLTrackerStore struct {
	db *DB
}

// NewSQLTrackerStore creates a tracker store on an opened database.
func NewSQLTrackerStore(db *DB) *SQLTrackerStore {
	return &SQLTrackerStore{db: db}
}

// Close closes the underlying database.
func (s *SQLTrackerStore) Close() error {
	return s.db.Close()
}

// Save upserts the tracker row and inserts events not stored yet.
func (s *SQLTrackerStore) Save(ctx context.Context, t *tracker.Tracker) error {
	tx, err := s.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	now := time.Now().UTC().Format(time.DateTime)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO trackers (sender_id, created_at, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(sender_id) DO UPDATE SET updated_at = excluded.updated_at`,
		t.SenderID, now, now,
	); err != nil {
		return fmt.Errorf("saving tracker %s: %w", t.SenderID, err)
	}

	for _, e := range t.Events {
		var data sql.NullString
		if len(e.Data) > 0 {
			b, err := json.Marshal(e.Data)
			if err != nil {
				return fmt.Errorf("encoding event %s: %w", e.ID, err)
			}
			data = sql.NullString{String: string(b), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events (id, sender_id, type, text, data, timestamp)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO NOTHING`,
			e.ID, t.SenderID, e.Type, e.Text, data, e.Timestamp.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("saving event %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// Retrieve loads a tracker with its events in insertion order.
func (s *SQLTrackerStore) Retrieve(ctx context.Context, senderID string) (*tracker.Tracker, error) {
	var exists int
	err := s.db.sql.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trackers WHERE sender_id = ?`, senderID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("retrieving tracker %s: %w", senderID, err)
	}
	if exists == 0 {
		return nil, nil
	}

	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT id, type, text, data, timestamp FROM events
		 WHERE sender_id = ? ORDER BY seq`, senderID,
	)
	if err != nil {
		return nil, fmt.Errorf("retrieving events for %s: %w", senderID, err)
	}
	defer rows.Close()

	t := tracker.New(senderID)
	for rows.Next() {
		var (
			e    tracker.Event
			data sql.NullString
			ts   string
		)
		if err := rows.Scan(&e.ID, &e.Type, &e.Text, &data, &ts); err != nil {
			return nil, err
		}
		if data.Valid {
			if err := json.Unmarshal([]byte(data.String), &e.Data); err != nil {
				return nil, fmt.Errorf("decoding event %s: %w", e.ID, err)
			}
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parsing event %s timestamp: %w", e.ID, err)
		}
		t.Append(e)
	}
	return t, rows.Err()
}

// Keys lists stored sender IDs in lexical order.
func (s *SQLTrackerStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.sql.QueryContext(ctx, `SELECT sender_id FROM trackers ORDER BY sender_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
