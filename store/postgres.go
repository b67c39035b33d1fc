package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore persists buckets in a divvy_buckets(key text primary key,
// count int, reset_at timestamptz) table, using a single INSERT ... ON
// CONFLICT ... RETURNING upsert per hit.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool against dsn (a postgres:// URL
// or libpq keyword string).
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

const postgresUpsert = `
INSERT INTO divvy_buckets (key, count, reset_at) VALUES ($1, 1, $3)
ON CONFLICT (key) DO UPDATE SET
	count = CASE WHEN divvy_buckets.reset_at < $2 THEN 1 ELSE divvy_buckets.count + 1 END,
	reset_at = CASE WHEN divvy_buckets.reset_at < $2 THEN $3 ELSE divvy_buckets.reset_at END
RETURNING count, reset_at
`

func (s *PostgresStore) Hit(ctx context.Context, key []byte, limit int, ttlSeconds int) (bool, int, int, error) {
	now := time.Now()
	resetAt := now.Add(time.Duration(ttlSeconds) * time.Second)

	var count int
	var storedResetAt time.Time
	err := s.db.QueryRowContext(ctx, postgresUpsert, string(key), now, resetAt).Scan(&count, &storedResetAt)
	if err != nil {
		return false, 0, 0, fmt.Errorf("postgres hit: %w", err)
	}
	return deriveResult(count, limit, storedResetAt, now)
}

func (s *PostgresStore) Close() error { return s.db.Close() }
