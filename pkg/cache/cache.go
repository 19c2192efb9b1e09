package cache

import (
	"sync"
	"time"
)

// Cache is a keyed store whose entries expire after a period of inactivity.
// Reading an entry with Get extends its lifetime by the TTL it was stored with.
type Cache[V any] interface {
	// Get returns the value and true if present and not expired
	Get(key string) (V, bool)

	// Set stores a value that expires after ttl without access
	Set(key string, value V, ttl time.Duration)

	// Delete removes a key; deleting a missing key is a no-op
	Delete(key string)

	// Len returns the number of entries, including expired ones not yet swept
	Len() int

	// Stop ends the background sweeper. Safe to call more than once.
	Stop()
}

type entry[V any] struct {
	value      V
	ttl        time.Duration
	expiration time.Time
}

func (e *entry[V]) expiredAt(now time.Time) bool {
	return now.After(e.expiration)
}

// InMemoryCache is a mutex-guarded Cache with a periodic sweeper.
type InMemoryCache[V any] struct {
	mu              sync.Mutex
	items           map[string]*entry[V]
	now             func() time.Time
	cleanupInterval time.Duration
	stop            chan struct{}
	stopOnce        sync.Once
}

// NewInMemoryCache creates a cache and starts its sweeper, which removes
// expired entries every cleanupInterval.
func NewInMemoryCache[V any](cleanupInterval time.Duration) *InMemoryCache[V] {
	c := &InMemoryCache[V]{
		items:           make(map[string]*entry[V]),
		now:             time.Now,
		cleanupInterval: cleanupInterval,
		stop:            make(chan struct{}),
	}

	go c.startCleanup()

	return c
}

func (c *InMemoryCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	item, found := c.items[key]
	if !found {
		return zero, false
	}

	now := c.now()
	if item.expiredAt(now) {
		delete(c.items, key)
		return zero, false
	}

	item.expiration = now.Add(item.ttl)
	return item.value, true
}

func (c *InMemoryCache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &entry[V]{
		value:      value,
		ttl:        ttl,
		expiration: c.now().Add(ttl),
	}
}

func (c *InMemoryCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

func (c *InMemoryCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

func (c *InMemoryCache[V]) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *InMemoryCache[V]) startCleanup() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

func (c *InMemoryCache[V]) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, item := range c.items {
		if item.expiredAt(now) {
			delete(c.items, key)
		}
	}
}
