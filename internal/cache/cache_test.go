// SPDX-License-Identifier: MIT

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	c := NewMemory(0)

	_, ok := c.Get("https://example.com/coches")
	assert.False(t, ok)

	c.Set("https://example.com/coches", []byte("<html>makes</html>"), time.Minute)

	page, ok := c.Get("https://example.com/coches")
	require.True(t, ok)
	assert.Equal(t, "<html>makes</html>", string(page))
}

func TestMemoryExpiration(t *testing.T) {
	c := NewMemory(0)
	c.Set("key", []byte("page"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestMemoryDeleteAndClear(t *testing.T) {
	c := NewMemory(0)
	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().CurrentSize)
}

func TestMemoryStats(t *testing.T) {
	c := NewMemory(0)
	c.Set("a", []byte("1"), time.Minute)
	c.Get("a")
	c.Get("missing")

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
	assert.Equal(t, 1, stats.CurrentSize)
}

func TestMemoryJanitorEvicts(t *testing.T) {
	c := NewMemory(10 * time.Millisecond)
	defer c.Stop()

	c.Set("short", []byte("1"), 5*time.Millisecond)
	c.Set("long", []byte("2"), time.Minute)

	assert.Eventually(t, func() bool {
		return c.Stats().Evictions == 1 && c.Stats().CurrentSize == 1
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryStopWithoutJanitor(t *testing.T) {
	c := NewMemory(0)
	c.Stop() // no sweep running; must not block or panic

	c.Set("a", []byte("1"), time.Minute)
	_, ok := c.Get("a")
	assert.True(t, ok)
}

func TestNoOpNeverStores(t *testing.T) {
	c := NewNoOp()
	c.Set("key", []byte("page"), time.Minute)

	_, ok := c.Get("key")
	assert.False(t, ok)
	assert.Equal(t, Stats{}, c.Stats())
}
