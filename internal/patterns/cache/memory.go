package cache

import (
	"sync"
	"time"
)

// Stats is the read-only view exposed for operational monitoring.
type Stats struct {
	Size    int `json:"size"`
	MaxSize int `json:"max_size"`
}

type entry[T any] struct {
	data      T
	timestamp time.Time
	ttl       time.Duration
}

// Memory is a concurrency-safe LRU+TTL cache. Entries are owned exclusively
// by the cache: eviction and expiry are the only mutation paths besides
// inserts.
type Memory[T any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[T]
	order   []string
	maxSize int
	ttl     time.Duration
}

func NewMemory[T any](maxSize int, ttl time.Duration) *Memory[T] {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Memory[T]{
		entries: make(map[string]*entry[T]),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func (c *Memory[T]) Get(key string) (T, bool) {
	var zero T

	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return zero, false
	}

	if time.Since(e.timestamp) > e.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.removeFromOrder(key)
		c.mu.Unlock()
		return zero, false
	}

	c.mu.Lock()
	c.moveToEnd(key)
	c.mu.Unlock()

	return e.data, true
}

func (c *Memory[T]) Set(key string, data T) {
	c.SetWithTTL(key, data, c.ttl)
}

func (c *Memory[T]) SetWithTTL(key string, data T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = &entry[T]{data: data, timestamp: time.Now(), ttl: ttl}
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = &entry[T]{data: data, timestamp: time.Now(), ttl: ttl}
	c.order = append(c.order, key)
}

// Sweep removes all expired entries and reports how many were dropped.
func (c *Memory[T]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if time.Since(e.timestamp) > e.ttl {
			delete(c.entries, key)
			c.removeFromOrder(key)
			removed++
		}
	}
	return removed
}

func (c *Memory[T]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Size: len(c.entries), MaxSize: c.maxSize}
}

func (c *Memory[T]) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *Memory[T]) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *Memory[T]) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
