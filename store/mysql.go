package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore persists buckets the same shape as PostgresStore. MySQL's
// INSERT ... ON DUPLICATE KEY UPDATE has no RETURNING clause, so the
// upsert runs inside a short transaction that locks the row instead of a
// single round trip.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore opens a connection pool against a go-sql-driver/mysql DSN.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) Hit(ctx context.Context, key []byte, limit int, ttlSeconds int) (bool, int, int, error) {
	now := time.Now()
	resetAt := now.Add(time.Duration(ttlSeconds) * time.Second)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, 0, fmt.Errorf("mysql hit: %w", err)
	}
	defer tx.Rollback()

	var count int
	var storedResetAt time.Time
	row := tx.QueryRowContext(ctx, "SELECT count, reset_at FROM divvy_buckets WHERE `key` = ? FOR UPDATE", string(key))
	switch err := row.Scan(&count, &storedResetAt); {
	case err == sql.ErrNoRows:
		count, storedResetAt = 1, resetAt
		_, err = tx.ExecContext(ctx, "INSERT INTO divvy_buckets (`key`, count, reset_at) VALUES (?, 1, ?)", string(key), resetAt)
		if err != nil {
			return false, 0, 0, fmt.Errorf("mysql hit: %w", err)
		}
	case err != nil:
		return false, 0, 0, fmt.Errorf("mysql hit: %w", err)
	case storedResetAt.Before(now):
		count, storedResetAt = 1, resetAt
		if _, err := tx.ExecContext(ctx, "UPDATE divvy_buckets SET count = 1, reset_at = ? WHERE `key` = ?", resetAt, string(key)); err != nil {
			return false, 0, 0, fmt.Errorf("mysql hit: %w", err)
		}
	default:
		count++
		if _, err := tx.ExecContext(ctx, "UPDATE divvy_buckets SET count = count + 1 WHERE `key` = ?", string(key)); err != nil {
			return false, 0, 0, fmt.Errorf("mysql hit: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, 0, 0, fmt.Errorf("mysql hit: %w", err)
	}
	return deriveResult(count, limit, storedResetAt, now)
}

func (s *MySQLStore) Close() error { return s.db.Close() }
