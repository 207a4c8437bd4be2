package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create trackers and events",
		SQL: `
			CREATE TABLE trackers (
				sender_id   TEXT PRIMARY KEY,
				created_at  TEXT NOT NULL DEFAULT (datetime('now')),
				updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE TABLE events (
				seq         INTEGER PRIMARY KEY AUTOINCREMENT,
				id          TEXT NOT NULL UNIQUE,
				sender_id   TEXT NOT NULL REFERENCES trackers(sender_id) ON DELETE CASCADE,
				type        TEXT NOT NULL,
				text        TEXT NOT NULL DEFAULT '',
				data        TEXT,
				timestamp   TEXT NOT NULL
			);

			CREATE INDEX idx_events_sender ON events(sender_id, seq);
		`,
	},
}
