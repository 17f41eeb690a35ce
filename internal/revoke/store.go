package revoke

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport failures talking to Redis.
var ErrRedisUnavailable = errors.New("redis unavailable")

const minTTL = time.Second

// Store is the token denylist. Safe for concurrent use.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// New creates a revocation [Store] with the given key prefix.
func New(redisClient redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "ea:rv"
	}
	return &Store{
		redis:  redisClient,
		prefix: prefix,
	}
}

// Revoke denylists jti for ttl. Returns true if this call claimed the entry,
// false if the jti was already revoked. TTLs below one second are clamped so
// an entry always outlives the token it shadows.
func (s *Store) Revoke(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if ttl < minTTL {
		ttl = minTTL
	}

	claimed, err := s.redis.SetNX(ctx, s.key(jti), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return claimed, nil
}

// IsRevoked reports whether jti is on the denylist.
func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

func (s *Store) key(jti string) string {
	return s.prefix + ":" + jti
}
