// Package cache implements the Redis side-cache used by the listing
// endpoints. The store is strictly an optimization: callers must treat every
// failure as a miss and never depend on it for correctness.
package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Store wraps a Redis client as a key/value cache with per-key TTLs. It is
// an injected instance with its own lifecycle, not a package-level singleton.
type Store struct {
	client *redis.Client
	logger *zap.Logger
}

// Options configures a Store connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewStore constructs a Store on a fresh Redis client. The connection is
// verified with a short ping; a failed ping is logged but not fatal since
// the cache is best-effort.
func NewStore(opts Options, logger *zap.Logger) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("cache: redis unreachable, continuing without cache", zap.Error(err))
	}
	return &Store{client: client, logger: logger}
}

// NewStoreWithClient wraps an existing client (used by tests and by callers
// sharing a connection pool).
func NewStoreWithClient(client *redis.Client, logger *zap.Logger) *Store {
	return &Store{client: client, logger: logger}
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Get returns the cached payload for key. The second return value is false
// on a miss. Transport failures are returned as errors so callers can fall
// back to a fresh compute.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set stores value under key for ttl. Last writer wins on contention.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes the given keys. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// DeleteByPrefix removes every key under prefix via an incremental scan.
// This backs coarse invalidation: on a write we drop the whole topic rather
// than compute which filtered views are stale.
func (s *Store) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Invalidate drops a topic prefix and logs failures without propagating
// them; a failed invalidation only shortens the cache's usefulness until
// the TTL expires.
func (s *Store) Invalidate(ctx context.Context, prefixes ...string) {
	for _, p := range prefixes {
		if err := s.DeleteByPrefix(ctx, p); err != nil {
			s.logger.Warn("cache: invalidation failed", zap.String("prefix", p), zap.Error(err))
		}
	}
}
