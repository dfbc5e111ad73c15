package cache

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func (e cacheEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// InMemoryCache is a thread-safe in-memory store with per-entry TTL.
type InMemoryCache struct {
	cache map[string]cacheEntry
	mu    sync.RWMutex
}

// NewInMemoryCache creates an empty in-memory cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		cache: make(map[string]cacheEntry),
	}
}

// Get retrieves a value from the cache.
// Returns the value and true if found and not expired, empty string and false otherwise.
func (c *InMemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}

	if entry.expired(time.Now()) {
		c.mu.Lock()
		delete(c.cache, key)
		c.mu.Unlock()
		return "", false
	}

	return entry.value, true
}

// Put stores a value in the cache.
func (c *InMemoryCache) Put(key string, value string, ttl time.Duration) error {
	entry := cacheEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = entry
	return nil
}

// Len returns the number of entries in the cache (including expired ones).
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Clear removes all entries from the cache.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cacheEntry)
}

// Entries returns all non-expired entries with their remaining TTL.
// A zero TTL means the entry never expires.
func (c *InMemoryCache) Entries() map[string]Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]Entry, len(c.cache))
	now := time.Now()

	for key, entry := range c.cache {
		if entry.expired(now) {
			continue
		}
		var ttl time.Duration
		if !entry.expiresAt.IsZero() {
			ttl = entry.expiresAt.Sub(now)
		}
		result[key] = Entry{Value: entry.value, TTL: ttl}
	}

	return result
}

// Entry is a cached value with its remaining lifetime.
type Entry struct {
	Value string
	TTL   time.Duration
}

var _ Store = (*InMemoryCache)(nil)
