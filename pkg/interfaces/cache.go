package interfaces

import (
	"context"
	"time"
)

// Loader produces a fresh value for a cache key.
type Loader func(ctx context.Context) (interface{}, error)

// SnapshotCache caches the results of expensive loads keyed by a request fingerprint.
type SnapshotCache interface {
	// Get returns a fresh cached value or runs load, collapsing concurrent loads per key
	Get(ctx context.Context, key string, ttl time.Duration, load Loader) (interface{}, error)

	// Refresh runs load unconditionally and stores the result if no newer load has landed
	Refresh(ctx context.Context, key string, ttl time.Duration, load Loader) (interface{}, error)

	// Invalidate drops the entry for key
	Invalidate(key string)

	// Clear removes all entries
	Clear()
}
