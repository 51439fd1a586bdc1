package state

import (
	"context"
	"fmt"
	"time"
)

// ReleaseRecord is one pipeline run as stored in the history ledger.
type ReleaseRecord struct {
	ID         int64
	Image      string
	Version    string
	Steps      string // e.g. "build=ok tag=ok push:1.0.0=ok push:latest=failed"
	OK         bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// HistoryStore keeps a local ledger of past releases.
type HistoryStore struct {
	db *DB
}

// NewHistoryStore creates the store and ensures the table exists.
func NewHistoryStore(ctx context.Context, database *DB) (*HistoryStore, error) {
	if database == nil {
		return nil, fmt.Errorf("history: nil database")
	}
	s := &HistoryStore{db: database}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *HistoryStore) ensureSchema(ctx context.Context) error {
	const createTable = `
CREATE TABLE IF NOT EXISTS releases (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	image       TEXT NOT NULL,
	version     TEXT NOT NULL,
	steps       TEXT NOT NULL,
	ok          INTEGER NOT NULL,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL
);
`
	if _, err := s.db.Raw().ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("history: ensure schema: %w", err)
	}
	return nil
}

// Record appends one release to the ledger.
func (s *HistoryStore) Record(ctx context.Context, rec ReleaseRecord) error {
	const stmt = `
INSERT INTO releases (image, version, steps, ok, started_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?);
`
	ok := 0
	if rec.OK {
		ok = 1
	}
	_, err := s.db.Raw().ExecContext(ctx, stmt,
		rec.Image, rec.Version, rec.Steps, ok,
		rec.StartedAt.Unix(), rec.FinishedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("history: record: %w", err)
	}
	return nil
}

// Recent returns the newest releases, most recent first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]ReleaseRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	const q = `
SELECT id, image, version, steps, ok, started_at, finished_at
FROM releases
ORDER BY id DESC
LIMIT ?;
`
	rows, err := s.db.Raw().QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	defer rows.Close()

	var out []ReleaseRecord
	for rows.Next() {
		var rec ReleaseRecord
		var ok int
		var startedUnix, finishedUnix int64
		if err := rows.Scan(&rec.ID, &rec.Image, &rec.Version, &rec.Steps, &ok, &startedUnix, &finishedUnix); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		rec.OK = ok != 0
		rec.StartedAt = time.Unix(startedUnix, 0).UTC()
		rec.FinishedAt = time.Unix(finishedUnix, 0).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}
	return out, nil
}
