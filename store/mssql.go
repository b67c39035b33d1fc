package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
)

// MSSQLStore mirrors PostgresStore's shape. SQL Server's MERGE statement
// with an OUTPUT clause gets the same single-round-trip atomic upsert
// Postgres gets from RETURNING.
type MSSQLStore struct {
	db *sql.DB
}

// NewMSSQLStore opens a connection pool against a go-mssqldb DSN.
func NewMSSQLStore(dsn string) (*MSSQLStore, error) {
	db, err := sql.Open("mssql", dsn)
	if err != nil {
		return nil, err
	}
	return &MSSQLStore{db: db}, nil
}

const mssqlMerge = `
MERGE divvy_buckets AS target
USING (SELECT @p1 AS [key]) AS source
ON target.[key] = source.[key]
WHEN MATCHED AND target.reset_at < @p2 THEN
	UPDATE SET count = 1, reset_at = @p3
WHEN MATCHED THEN
	UPDATE SET count = target.count + 1
WHEN NOT MATCHED THEN
	INSERT ([key], count, reset_at) VALUES (source.[key], 1, @p3)
OUTPUT inserted.count, inserted.reset_at;
`

func (s *MSSQLStore) Hit(ctx context.Context, key []byte, limit int, ttlSeconds int) (bool, int, int, error) {
	now := time.Now()
	resetAt := now.Add(time.Duration(ttlSeconds) * time.Second)

	var count int
	var storedResetAt time.Time
	err := s.db.QueryRowContext(ctx, mssqlMerge, string(key), now, resetAt).Scan(&count, &storedResetAt)
	if err != nil {
		return false, 0, 0, fmt.Errorf("mssql hit: %w", err)
	}
	return deriveResult(count, limit, storedResetAt, now)
}

func (s *MSSQLStore) Close() error { return s.db.Close() }
