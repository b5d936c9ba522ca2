package cache

import (
	"container/list"
	"sync"
	"time"
)

type lruEntry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// LRUCache is a thread-safe LRU cache with an optional time to live.
// When the cache is full the least recently used entry is evicted.
type LRUCache[K comparable, V any] struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time
	items    map[K]*list.Element
	eviction *list.List
	mu       sync.Mutex
	onEvict  func(key K, value V)
}

// Option configures an LRUCache.
type Option func(*options)

type options struct {
	ttl time.Duration
	now func() time.Time
}

// WithTTL expires entries d after they were written. Zero disables expiry.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.ttl = d
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// NewLRUCache creates a cache holding at most capacity entries.
// It panics if capacity is not positive.
func NewLRUCache[K comparable, V any](capacity int, opts ...Option) *LRUCache[K, V] {
	if capacity <= 0 {
		panic("LRU cache capacity must be positive")
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &LRUCache[K, V]{
		capacity: capacity,
		ttl:      o.ttl,
		now:      o.now,
		items:    make(map[K]*list.Element),
		eviction: list.New(),
	}
}

// SetEvictCallback registers fn to run for entries removed by capacity,
// expiry, Remove or Clear.
func (c *LRUCache[K, V]) SetEvictCallback(fn func(key K, value V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get returns the value for key and marks it as recently used.
// Expired entries are dropped and reported as missing.
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}
	entry := elem.Value.(*lruEntry[K, V])
	if c.expired(entry) {
		c.removeElement(elem)
		return zero, false
	}

	c.eviction.MoveToFront(elem)
	return entry.value, true
}

// Put stores value under key and returns the previous value, if any.
// Writing an existing key refreshes its expiry.
func (c *LRUCache[K, V]) Put(key K, value V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.expiry()
	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		entry := elem.Value.(*lruEntry[K, V])
		old := entry.value
		entry.value = value
		entry.expiresAt = expiresAt
		return old, true
	}

	c.items[key] = c.eviction.PushFront(&lruEntry[K, V]{key: key, value: value, expiresAt: expiresAt})
	if c.eviction.Len() > c.capacity {
		c.evictOldest()
	}

	var zero V
	return zero, false
}

// Remove deletes key and returns the value it held.
func (c *LRUCache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
		return elem.Value.(*lruEntry[K, V]).value, true
	}

	var zero V
	return zero, false
}

// Len counts stored entries, including expired ones not yet dropped.
func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eviction.Len()
}

// Clear removes every entry, calling the evict callback for each.
func (c *LRUCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.onEvict != nil {
		for _, elem := range c.items {
			entry := elem.Value.(*lruEntry[K, V])
			c.onEvict(entry.key, entry.value)
		}
	}

	c.items = make(map[K]*list.Element)
	c.eviction.Init()
}

func (c *LRUCache[K, V]) expiry() time.Time {
	if c.ttl == 0 {
		return time.Time{}
	}
	return c.now().Add(c.ttl)
}

func (c *LRUCache[K, V]) expired(e *lruEntry[K, V]) bool {
	return !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt)
}

// Must be called with lock held.
func (c *LRUCache[K, V]) evictOldest() {
	if elem := c.eviction.Back(); elem != nil {
		c.removeElement(elem)
	}
}

// Must be called with lock held.
func (c *LRUCache[K, V]) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	entry := elem.Value.(*lruEntry[K, V])
	delete(c.items, entry.key)

	if c.onEvict != nil {
		c.onEvict(entry.key, entry.value)
	}
}
