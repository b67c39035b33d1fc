package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// hitScript atomically increments the bucket counter and arms its TTL only
// at creation, the classic fixed-window counter: INCR never resets an
// in-flight window's expiry.
var hitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RedisStore is divvy's reference bucket backend.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to addr, which may be a redis:// URL or a bare
// host:port.
func NewRedisStore(addr string) (*RedisStore, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr}
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

func (s *RedisStore) Hit(ctx context.Context, key []byte, limit int, ttlSeconds int) (bool, int, int, error) {
	res, err := hitScript.Run(ctx, s.client, []string{string(key)}, ttlSeconds).Result()
	if err != nil {
		return false, 0, 0, fmt.Errorf("redis hit: %w", err)
	}

	pair, ok := res.([]interface{})
	if !ok || len(pair) != 2 {
		return false, 0, 0, fmt.Errorf("redis hit: unexpected script reply %v", res)
	}
	current := toInt(pair[0])
	ttl := toInt(pair[1])

	remaining := limit - current
	if remaining < 0 {
		remaining = 0
	}
	return current <= limit, remaining, ttl, nil
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func (s *RedisStore) Close() error { return s.client.Close() }
