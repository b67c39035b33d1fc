package store

import "time"

// deriveResult turns a stored (count, resetAt) pair into the handler-facing
// (allowed, remaining, resetSeconds) triple shared by every SQL-backed
// Store -- the arithmetic is identical across dialects, only the upsert
// statement that produces count/resetAt differs.
func deriveResult(count, limit int, resetAt, now time.Time) (bool, int, int, error) {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	resetSeconds := int(resetAt.Sub(now).Seconds())
	if resetSeconds < 0 {
		resetSeconds = 0
	}
	return count <= limit, remaining, resetSeconds, nil
}
