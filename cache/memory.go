package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Cache is an in-memory TTL cache with least-recently-used eviction.
//
// Contract:
//   - Concurrency: safe for concurrent use. Every operation that mutates the
//     entry set or the recency order (Get, Set, SweepExpired) holds the write
//     lock; Len and Stats hold the read lock.
//   - Expiry: an entry is never returned once its age reaches the TTL. Expired
//     entries are removed lazily by Get and eagerly by SweepExpired.
//   - Capacity: Len never exceeds the configured MaxEntries.
//   - Ownership: values are cloned on the way in and on the way out when a
//     clone function is configured.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries *simplelru.LRU[string, *entry[V]]
	ttl     time.Duration
	max     int
	now     func() time.Time
	clone   func(V) V

	hits        atomic.Uint64
	misses      atomic.Uint64
	evictions   atomic.Uint64
	expirations atomic.Uint64
}

type entry[V any] struct {
	value      V
	createdAt  time.Time
	lastAccess time.Time
}

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithClone sets the function used to copy values in and out of the cache.
func WithClone[V any](fn func(V) V) Option[V] {
	return func(c *Cache[V]) {
		if fn != nil {
			c.clone = fn
		}
	}
}

// New creates a cache from cfg. Unset fields take their defaults.
func New[V any](cfg Config, opts ...Option[V]) *Cache[V] {
	cfg = cfg.withDefaults()

	// size is always positive here, so NewLRU cannot fail
	lru, _ := simplelru.NewLRU[string, *entry[V]](cfg.MaxEntries, nil)

	c := &Cache[V]{
		entries: lru,
		ttl:     cfg.TTL,
		max:     cfg.MaxEntries,
		now:     cfg.Clock,
		clone:   func(v V) V { return v },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured entry lifetime.
func (c *Cache[V]) TTL() time.Duration { return c.ttl }

// MaxEntries returns the configured capacity.
func (c *Cache[V]) MaxEntries() int { return c.max }

// Get returns a copy of the value stored under key. It reports false when the
// key is absent or expired; an expired entry is removed.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Peek(key)
	if !ok {
		c.misses.Add(1)
		return zero, false
	}

	now := c.now()
	if now.Sub(e.createdAt) >= c.ttl {
		c.entries.Remove(key)
		c.expirations.Add(1)
		c.misses.Add(1)
		return zero, false
	}

	// Get (not Peek) moves the entry to the front of the recency list.
	c.entries.Get(key)
	e.lastAccess = now
	c.hits.Add(1)
	return c.clone(e.value), true
}

// Set stores value under key. When key is new and the cache is full, the
// least recently accessed entry is evicted first. Setting an existing key
// replaces its value and restarts its TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	evicted := c.entries.Add(key, &entry[V]{
		value:      c.clone(value),
		createdAt:  now,
		lastAccess: now,
	})
	if evicted {
		c.evictions.Add(1)
	}
}

// GetOrFetch returns the cached value for key, or calls fetch on a miss and
// caches its result. The lock is not held while fetch runs, so concurrent
// misses on the same key may each call fetch; the last store wins.
func (c *Cache[V]) GetOrFetch(ctx context.Context, key string, fetch FetchFunc[V]) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	c.Set(key, v)
	return v, nil
}

// SweepExpired removes every entry whose age has reached the TTL and returns
// the number removed.
func (c *Cache[V]) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for _, key := range c.entries.Keys() {
		e, ok := c.entries.Peek(key)
		if !ok {
			continue
		}
		if now.Sub(e.createdAt) >= c.ttl {
			c.entries.Remove(key)
			removed++
		}
	}
	c.expirations.Add(uint64(removed))
	return removed
}

// Len returns the number of stored entries, including expired entries that
// have not been swept yet.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Len()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Entries:     c.Len(),
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		Expirations: c.expirations.Load(),
	}
}
