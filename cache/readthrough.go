package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// WithCache is the generic read-through wrapper for listing endpoints. On a
// hit it decodes the cached payload; on a miss it runs compute, caches the
// result with ttl, and returns it. If the store is unreachable the compute
// result is returned uncached; the cache is never a dependency for
// correctness. The bool result reports whether the value came from cache.
func WithCache[T any](ctx context.Context, store *Store, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, bool, error) {
	var zero T

	payload, hit, err := store.Get(ctx, key)
	if err != nil {
		store.logger.Warn("cache: get failed, computing fresh", zap.String("key", key), zap.Error(err))
		val, cerr := compute(ctx)
		if cerr != nil {
			return zero, false, cerr
		}
		return val, false, nil
	}
	if hit {
		var val T
		if uerr := json.Unmarshal(payload, &val); uerr == nil {
			return val, true, nil
		}
		// Corrupt entry: drop it and recompute.
		_ = store.Delete(ctx, key)
	}

	val, cerr := compute(ctx)
	if cerr != nil {
		return zero, false, cerr
	}

	if data, merr := json.Marshal(val); merr == nil {
		if serr := store.Set(ctx, key, data, ttl); serr != nil {
			store.logger.Warn("cache: set failed", zap.String("key", key), zap.Error(serr))
		}
	}
	return val, false, nil
}
