package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T) (*InMemoryCache[string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewInMemoryCache[string](time.Hour)
	c.now = clock.Now
	t.Cleanup(c.Stop)
	return c, clock
}

func TestInMemoryCache_BasicOperations(t *testing.T) {
	c, _ := newTestCache(t)

	c.Set("key1", "value1", time.Minute)

	value, found := c.Get("key1")
	assert.True(t, found)
	assert.Equal(t, "value1", value)

	value, found = c.Get("missing")
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestInMemoryCache_Expiration(t *testing.T) {
	c, clock := newTestCache(t)

	c.Set("key1", "value1", time.Minute)
	clock.Advance(61 * time.Second)

	_, found := c.Get("key1")
	assert.False(t, found)
	assert.Equal(t, 0, c.Len(), "expired entry is dropped on read")
}

func TestInMemoryCache_GetExtendsLifetime(t *testing.T) {
	c, clock := newTestCache(t)

	c.Set("key1", "value1", time.Minute)

	clock.Advance(45 * time.Second)
	_, found := c.Get("key1")
	assert.True(t, found)

	clock.Advance(45 * time.Second)
	_, found = c.Get("key1")
	assert.True(t, found, "access within the ttl keeps the entry alive")

	clock.Advance(2 * time.Minute)
	_, found = c.Get("key1")
	assert.False(t, found)
}

func TestInMemoryCache_Delete(t *testing.T) {
	c, _ := newTestCache(t)

	c.Set("key1", "value1", time.Minute)
	c.Delete("key1")
	c.Delete("never-set")

	_, found := c.Get("key1")
	assert.False(t, found)
}

func TestInMemoryCache_Cleanup(t *testing.T) {
	c, clock := newTestCache(t)

	c.Set("short", "a", time.Second)
	c.Set("long", "b", time.Hour)
	assert.Equal(t, 2, c.Len())

	clock.Advance(2 * time.Second)
	c.cleanup()

	assert.Equal(t, 1, c.Len())
	_, found := c.Get("long")
	assert.True(t, found)
}

func TestInMemoryCache_StopIsIdempotent(t *testing.T) {
	c := NewInMemoryCache[int](10 * time.Millisecond)
	c.Stop()
	assert.NotPanics(t, c.Stop)
}

func TestInMemoryCache_ConcurrentAccess(t *testing.T) {
	c, _ := newTestCache(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%5)
			c.Set(key, key, time.Minute)
			c.Get(key)
			if i%3 == 0 {
				c.Delete(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 5)
}
