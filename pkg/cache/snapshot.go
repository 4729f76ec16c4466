package cache

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/narwhalmedia/marquee/pkg/interfaces"
)

type entry struct {
	value      interface{}
	expiration time.Time
	seq        uint64
}

// SnapshotCache is an in-memory cache keyed by request fingerprint.
//
// Concurrent misses for one key share a single load. Every load is stamped
// with an issue sequence when it starts, and a finished load only replaces
// the stored entry when its sequence is newer, so a slow load issued before
// a refresh can never overwrite the refreshed value. Invalidate and Clear
// raise a floor that loads issued before them cannot store under.
type SnapshotCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	floors  map[string]uint64
	cleared uint64
	group   singleflight.Group
	seq     atomic.Uint64
	epoch   atomic.Uint64
	now     func() time.Time
}

var _ interfaces.SnapshotCache = (*SnapshotCache)(nil)

// NewSnapshotCache creates an empty cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{
		entries: make(map[string]*entry),
		floors:  make(map[string]uint64),
		now:     time.Now,
	}
}

// Get returns the cached value for key when it has not expired, otherwise it
// loads a new one. Failed loads are not cached.
func (c *SnapshotCache) Get(ctx context.Context, key string, ttl time.Duration, load interfaces.Loader) (interface{}, error) {
	if v, ok := c.lookup(key); ok {
		return v, nil
	}
	return c.share(ctx, key, ttl, load)
}

// Refresh ignores the cached value and starts a new load. Loads already in
// flight for key keep running but lose to this one.
func (c *SnapshotCache) Refresh(ctx context.Context, key string, ttl time.Duration, load interfaces.Loader) (interface{}, error) {
	c.group.Forget(c.flightKey(key))
	return c.share(ctx, key, ttl, load)
}

// Invalidate drops the entry for key. Loads already in flight for key
// still return to their callers but are not stored, and the next Get
// starts a new load.
func (c *SnapshotCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.floors[key] = c.seq.Add(1)
	delete(c.entries, key)
	c.group.Forget(c.flightKey(key))
}

// Clear removes all values from the cache. Loads in flight are not stored.
func (c *SnapshotCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleared = c.seq.Add(1)
	c.entries = make(map[string]*entry)
	c.floors = make(map[string]uint64)
	c.epoch.Add(1)
}

// Len returns the number of stored entries, expired or not.
func (c *SnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// StartJanitor periodically removes expired entries until ctx is done.
func (c *SnapshotCache) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.prune()
			}
		}
	}()
}

func (c *SnapshotCache) lookup(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiration) {
		return nil, false
	}
	return e.value, true
}

func (c *SnapshotCache) share(ctx context.Context, key string, ttl time.Duration, load interfaces.Loader) (interface{}, error) {
	// The flight outlives any single caller, so it must not inherit one
	// caller's cancellation.
	flightCtx := context.WithoutCancel(ctx)
	seq := c.seq.Add(1)

	ch := c.group.DoChan(c.flightKey(key), func() (interface{}, error) {
		v, err := load(flightCtx)
		if err != nil {
			return nil, err
		}
		c.store(key, v, ttl, seq)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// flightKey scopes a load to the current Clear epoch.
func (c *SnapshotCache) flightKey(key string) string {
	return strconv.FormatUint(c.epoch.Load(), 10) + ":" + key
}

func (c *SnapshotCache) store(key string, v interface{}, ttl time.Duration, seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.entries[key]; ok && cur.seq > seq {
		return
	}
	if seq <= c.cleared || seq <= c.floors[key] {
		return
	}
	delete(c.floors, key)
	c.entries[key] = &entry{
		value:      v,
		expiration: c.now().Add(ttl),
		seq:        seq,
	}
}

func (c *SnapshotCache) prune() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiration) {
			delete(c.entries, key)
		}
	}
}
