// Package cachemanager provides small in-memory caches with TTLs.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a typed cache keyed by K.
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
	Count() int
}
