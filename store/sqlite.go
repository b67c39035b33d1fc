package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the single-process deployment backend, grounded on the
// teacher's SQLite adapter (database/sqlite3/sqlite3.go). Modern SQLite
// supports RETURNING, so the upsert is one round trip like Postgres.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens dsn (a file path, or ":memory:" for an ephemeral
// per-process store).
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteUpsert = `
INSERT INTO divvy_buckets (key, count, reset_at) VALUES (?, 1, ?)
ON CONFLICT (key) DO UPDATE SET
	count = CASE WHEN reset_at < ? THEN 1 ELSE count + 1 END,
	reset_at = CASE WHEN reset_at < ? THEN excluded.reset_at ELSE reset_at END
RETURNING count, reset_at
`

func (s *SQLiteStore) Hit(ctx context.Context, key []byte, limit int, ttlSeconds int) (bool, int, int, error) {
	now := time.Now()
	resetAt := now.Add(time.Duration(ttlSeconds) * time.Second)

	var count int
	var storedResetAt time.Time
	err := s.db.QueryRowContext(ctx, sqliteUpsert, string(key), resetAt, now, now).Scan(&count, &storedResetAt)
	if err != nil {
		return false, 0, 0, fmt.Errorf("sqlite hit: %w", err)
	}
	return deriveResult(count, limit, storedResetAt, now)
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
