package search

import (
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/vestigo/internal/models"
)

// responseCache is an in-process TTL cache for search responses, shared across
// concurrent callers. Each key is independent: the worst-case race is two
// callers missing simultaneously and both calling the provider, which is an
// accepted inefficiency rather than a correctness bug.
type responseCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
	maxSize int
	clock   func() time.Time
}

type cacheEntry struct {
	response *models.SearchResponse
	storedAt time.Time
}

func newResponseCache(ttl time.Duration, maxSize int) *responseCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if maxSize <= 0 {
		maxSize = 512
	}
	return &responseCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		maxSize: maxSize,
		clock:   time.Now,
	}
}

// cacheKey builds the lookup signature from the parameters that change the
// provider's answer.
func cacheKey(query string, depth models.SearchDepth, maxResults int) string {
	return fmt.Sprintf("%s|%s|%d", query, depth, maxResults)
}

// Get returns the cached response for key, or nil when absent or expired.
// Expired entries are treated as absent, never served.
func (c *responseCache) Get(key string) *models.SearchResponse {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil
	}

	if c.clock().Sub(entry.storedAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; another caller may have refreshed it.
		if current, ok := c.entries[key]; ok && c.clock().Sub(current.storedAt) >= c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil
	}

	return entry.response
}

// Put stores a response. When the cache is full the oldest entry is evicted.
func (c *responseCache) Put(key string, response *models.SearchResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		if _, exists := c.entries[key]; !exists {
			c.evictOldestLocked()
		}
	}

	c.entries[key] = &cacheEntry{
		response: response,
		storedAt: c.clock(),
	}
}

// Len returns the number of live entries.
func (c *responseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *responseCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.storedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
