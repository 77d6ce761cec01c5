// Package cache provides the request-deduplicating fetch cache the pipeline
// puts in front of the external weather provider. Entries carry a per-call
// TTL, capacity is enforced with least-recently-used eviction, and concurrent
// callers of one key share a single in-flight fetch.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"climata/internal/metrics"
)

// Cache memoizes fetches by key. The clock is injected so TTL and eviction
// behaviour are deterministic under test.
type Cache[V any] struct {
	clock    clockwork.Clock
	capacity int

	mu      sync.Mutex
	entries map[string]*entry[V]
	head    *entry[V] // most recently used
	tail    *entry[V] // least recently used

	group singleflight.Group
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	prev      *entry[V]
	next      *entry[V]
}

// New creates a cache bounded to capacity entries. A capacity of zero or
// less disables eviction.
func New[V any](capacity int, clock clockwork.Clock) *Cache[V] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cache[V]{
		clock:    clock,
		capacity: capacity,
		entries:  make(map[string]*entry[V]),
	}
}

// GetOrFetch returns the cached value for key if one exists and is younger
// than its TTL. Otherwise it invokes fetch, stores a successful result with
// ttl, and returns it. While a fetch for key is in flight every concurrent
// caller of the same key awaits and shares that one outcome; fetch errors are
// returned to all waiters and never cached.
func (c *Cache[V]) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := c.lookup(key); ok {
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return v, nil
	}
	metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()

	res, err, _ := c.group.Do(key, func() (any, error) {
		// A waiter that queued behind the winning fetch may arrive after the
		// value landed; serve it without a second network call.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		// The fetch outcome is shared by every waiter on this key, so the
		// winning caller's cancellation must not abort it for the others.
		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Len reports the number of live entries, expired ones included until their
// next lookup or eviction.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// lookup returns a fresh entry and promotes it; stale entries are removed so
// the cache never serves a value older than its TTL.
func (c *Cache[V]) lookup(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !c.clock.Now().Before(e.expiresAt) {
		c.remove(e)
		delete(c.entries, e.key)
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *Cache[V]) store(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.clock.Now().Add(ttl)
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expires
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value, expiresAt: expires}
	c.entries[key] = e
	c.addToFront(e)

	if c.capacity > 0 && len(c.entries) > c.capacity {
		c.evictTail()
	}
}

func (c *Cache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *Cache[V]) addToFront(e *entry[V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *Cache[V]) remove(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *Cache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
	metrics.CacheEvictionsTotal.Inc()
}
