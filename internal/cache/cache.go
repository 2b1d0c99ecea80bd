// SPDX-License-Identifier: MIT

// Package cache stores fetched pages keyed by URL so rescrapes can skip
// unchanged fetches.
package cache

import (
	"sync"
	"time"
)

// Cache is a thread-safe page cache with per-entry expiration.
type Cache interface {
	// Get retrieves a page. Returns false if not cached or expired.
	Get(key string) ([]byte, bool)
	// Set stores a page with the given TTL.
	Set(key string, page []byte, ttl time.Duration)
	// Delete removes a page.
	Delete(key string)
	// Clear removes everything.
	Clear()
	// Stats returns cache statistics.
	Stats() Stats
}

// Stats holds cache performance counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Sets        int64
	Evictions   int64
	CurrentSize int
}

type entry struct {
	page       []byte
	expiration time.Time
}

func (e *entry) isExpired() bool {
	return time.Now().After(e.expiration)
}

// MemoryCache is the in-process Cache. With a background sweep enabled
// the owner must call Stop when done with it.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*entry
	stats   Stats
	janitor *janitor
}

// NewMemory creates an in-memory cache. A positive cleanupInterval starts
// a background sweep of expired entries.
func NewMemory(cleanupInterval time.Duration) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]*entry),
	}
	if cleanupInterval > 0 {
		c.janitor = &janitor{
			interval: cleanupInterval,
			stop:     make(chan struct{}),
		}
		go c.janitor.run(c)
	}
	return c
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.entries[key]
	if !found || e.isExpired() {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	return e.page, true
}

func (c *MemoryCache) Set(key string, page []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{
		page:       page,
		expiration: time.Now().Add(ttl),
	}
	c.stats.Sets++
}

func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.CurrentSize = len(c.entries)
	return stats
}

func (c *MemoryCache) deleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key, e := range c.entries {
		if e.isExpired() {
			delete(c.entries, key)
			count++
		}
	}
	c.stats.Evictions += int64(count)
	return count
}

// Stop halts the background sweep.
func (c *MemoryCache) Stop() {
	if c.janitor != nil {
		c.janitor.stop <- struct{}{}
	}
}

type janitor struct {
	interval time.Duration
	stop     chan struct{}
}

func (j *janitor) run(c *MemoryCache) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-j.stop:
			return
		}
	}
}

// NewNoOp creates a cache that never stores anything. Used when caching
// is disabled.
func NewNoOp() Cache {
	return &noOpCache{}
}

type noOpCache struct{}

func (c *noOpCache) Get(string) ([]byte, bool)         { return nil, false }
func (c *noOpCache) Set(string, []byte, time.Duration) {}
func (c *noOpCache) Delete(string)                     {}
func (c *noOpCache) Clear()                            {}
func (c *noOpCache) Stats() Stats                      { return Stats{} }
