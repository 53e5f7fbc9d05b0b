package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	t.Run("get returns what was set", func(t *testing.T) {
		c := NewMemory[string](10, time.Minute)
		c.Set("key", "value")

		got, ok := c.Get("key")
		require.True(t, ok)
		assert.Equal(t, "value", got)
	})

	t.Run("miss on unknown key", func(t *testing.T) {
		c := NewMemory[string](10, time.Minute)
		_, ok := c.Get("missing")
		assert.False(t, ok)
	})

	t.Run("expired entries are misses", func(t *testing.T) {
		c := NewMemory[int](10, time.Minute)
		c.SetWithTTL("key", 42, time.Nanosecond)
		time.Sleep(2 * time.Millisecond)

		_, ok := c.Get("key")
		assert.False(t, ok)
		assert.Equal(t, 0, c.Stats().Size)
	})

	t.Run("evicts least recently used at capacity", func(t *testing.T) {
		c := NewMemory[int](2, time.Minute)
		c.Set("a", 1)
		c.Set("b", 2)

		// Touch "a" so "b" becomes the eviction candidate.
		_, ok := c.Get("a")
		require.True(t, ok)

		c.Set("c", 3)

		_, okA := c.Get("a")
		_, okB := c.Get("b")
		_, okC := c.Get("c")
		assert.True(t, okA)
		assert.False(t, okB)
		assert.True(t, okC)
	})

	t.Run("updating a key does not grow the cache", func(t *testing.T) {
		c := NewMemory[int](2, time.Minute)
		c.Set("a", 1)
		c.Set("a", 2)

		got, ok := c.Get("a")
		require.True(t, ok)
		assert.Equal(t, 2, got)
		assert.Equal(t, 1, c.Stats().Size)
	})

	t.Run("sweep removes only expired entries", func(t *testing.T) {
		c := NewMemory[int](10, time.Minute)
		c.SetWithTTL("old", 1, time.Nanosecond)
		c.Set("fresh", 2)
		time.Sleep(2 * time.Millisecond)

		removed := c.Sweep()
		assert.Equal(t, 1, removed)

		_, ok := c.Get("fresh")
		assert.True(t, ok)
		assert.Equal(t, 1, c.Stats().Size)
	})

	t.Run("stats reports size and max size", func(t *testing.T) {
		c := NewMemory[int](5, time.Minute)
		c.Set("a", 1)
		c.Set("b", 2)

		stats := c.Stats()
		assert.Equal(t, 2, stats.Size)
		assert.Equal(t, 5, stats.MaxSize)
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		c := NewMemory[int](100, time.Minute)
		done := make(chan struct{})

		for i := 0; i < 4; i++ {
			go func(n int) {
				defer func() { done <- struct{}{} }()
				for j := 0; j < 200; j++ {
					key := string(rune('a' + (n+j)%26))
					c.Set(key, j)
					c.Get(key)
				}
			}(i)
		}
		for i := 0; i < 4; i++ {
			<-done
		}
	})
}
