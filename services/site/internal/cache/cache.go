// Package cache holds upstream response bodies for a bounded time so repeat
// page views do not hit AniList or Consumet again.
//
// Backends: Redis when REDIS_URL is set, otherwise an in-process TTL map.
// Either one can be invalidated over NATS.
package cache

import "context"

// AllKeys is the invalidation payload that flushes the whole cache.
const AllKeys = "ALL"

// Cache is a byte-oriented response cache. Misses and backend failures look
// the same to callers; implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	Invalidate(ctx context.Context, key string) error
}
