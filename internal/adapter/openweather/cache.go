package openweather

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/temperature-analytics/internal/observability"
)

// Fetcher is the provider interface wrapped by the cache decorator.
type Fetcher interface {
	CurrentTemperature(ctx context.Context, city string) (float64, error)
}

// CachedClient wraps a Fetcher with a TTL-bounded in-memory LRU cache so
// repeated classification requests for the same city within the TTL reuse
// one provider call. Errors are never cached.
type CachedClient struct {
	inner   Fetcher
	cache   *lruCache
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// NewCachedClient creates a cache decorator around a weather fetcher.
func NewCachedClient(inner Fetcher, maxEntries int, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedClient {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CachedClient{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
	}
}

func (c *CachedClient) CurrentTemperature(ctx context.Context, city string) (float64, error) {
	key := strings.ToLower(strings.TrimSpace(city))

	if temp, ok := c.cache.get(key, c.clock.Now()); ok {
		c.metrics.LiveCache.WithLabelValues("hit").Inc()
		return temp, nil
	}
	c.metrics.LiveCache.WithLabelValues("miss").Inc()

	temp, err := c.inner.CurrentTemperature(ctx, city)
	if err != nil {
		return 0, err
	}
	c.cache.put(key, temp, c.clock.Now().Add(c.ttl))
	return temp, nil
}

// lruCache is a thread-safe LRU cache of live readings with per-entry
// expiry.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     float64
	expiresAt time.Time
	prev      *entry
	next      *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string, now time.Time) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	if now.After(e.expiresAt) {
		delete(c.entries, key)
		c.remove(e)
		return 0, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value float64, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
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

func (c *lruCache) remove(e *entry) {
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

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
