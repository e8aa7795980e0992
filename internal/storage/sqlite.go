// Package storage persists the whole entity snapshot as one versioned JSON
// blob under a fixed key. There is no per-entity addressing; callers load
// and save the full snapshot.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fridgeseal/sealtrack/internal/model"
)

const (
	// snapshotKey matches the storage key of the original client-side store,
	// so an exported blob stays recognisable.
	snapshotKey     = "fridgeseal-db-v1"
	snapshotVersion = 1
)

type SQLite struct {
	db *sql.DB
}

func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS snapshot (
  key TEXT PRIMARY KEY,
  version INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  data TEXT NOT NULL
);
`); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// Load returns the stored snapshot, or (nil, nil) when none has ever been
// saved (first run).
func (s *SQLite) Load(ctx context.Context) (*model.Entities, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT version, data FROM snapshot WHERE key = ?`, snapshotKey,
	)
	var (
		version int
		data    string
	)
	if err := row.Scan(&version, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var entities model.Entities
	if err := json.Unmarshal([]byte(data), &entities); err != nil {
		return nil, err
	}
	return &entities, nil
}

// Save replaces the snapshot in one statement, so readers never observe a
// partial write.
func (s *SQLite) Save(ctx context.Context, entities *model.Entities) error {
	raw, err := json.Marshal(entities)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshot (key, version, updated_at, data)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET
           version = excluded.version,
           updated_at = excluded.updated_at,
           data = excluded.data`,
		snapshotKey,
		snapshotVersion,
		time.Now().UnixMilli(),
		string(raw),
	)
	return err
}
