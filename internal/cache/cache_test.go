package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	newClocked := func(ttl time.Duration) (*Cache[string, int], *time.Time) {
		c := New[string, int](ttl)
		current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return current }
		return c, &current
	}

	t.Run("miss on unknown key", func(t *testing.T) {
		c, _ := newClocked(time.Minute)

		_, ok := c.Get("nope")
		assert.False(t, ok)
	})

	t.Run("hit within ttl", func(t *testing.T) {
		c, now := newClocked(30 * time.Minute)
		c.Set("pages", 42)

		*now = now.Add(29 * time.Minute)

		v, ok := c.Get("pages")
		require.True(t, ok)
		assert.Equal(t, 42, v)
	})

	t.Run("expires after ttl regardless of reads", func(t *testing.T) {
		c, now := newClocked(30 * time.Minute)
		c.Set("pages", 42)

		// reads do not refresh the entry
		*now = now.Add(15 * time.Minute)
		_, ok := c.Get("pages")
		require.True(t, ok)

		*now = now.Add(15 * time.Minute)
		_, ok = c.Get("pages")
		assert.False(t, ok)
	})

	t.Run("set restarts expiry", func(t *testing.T) {
		c, now := newClocked(30 * time.Minute)
		c.Set("pages", 1)

		*now = now.Add(20 * time.Minute)
		c.Set("pages", 2)

		*now = now.Add(20 * time.Minute)
		v, ok := c.Get("pages")
		require.True(t, ok)
		assert.Equal(t, 2, v)
	})

	t.Run("remove drops only the given key", func(t *testing.T) {
		c, _ := newClocked(time.Hour)
		c.Set("a", 1)
		c.Set("b", 2)

		c.Remove("a")

		assert.Equal(t, 1, c.Len())
		_, ok := c.Get("a")
		assert.False(t, ok)
		v, ok := c.Get("b")
		require.True(t, ok)
		assert.Equal(t, 2, v)
	})
}
