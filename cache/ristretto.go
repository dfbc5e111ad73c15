package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// RistrettoCache is a bounded in-process store backed by ristretto.
// Entries are admitted probabilistically and may be evicted under pressure.
type RistrettoCache struct {
	cache *ristretto.Cache
}

// RistrettoConfig holds sizing for the ristretto cache.
type RistrettoConfig struct {
	MaxCost     int64 // Total bytes of values to keep (default: 64 MiB)
	NumCounters int64 // Keys to track frequency of (default: 10x expected entries)
}

// NewRistrettoCache creates a new ristretto-backed store.
func NewRistrettoCache(cfg RistrettoConfig) (*RistrettoCache, error) {
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = 64 << 20
	}
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = 1e6
	}

	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("creating ristretto cache: %w", err)
	}

	return &RistrettoCache{cache: c}, nil
}

// Get retrieves a value from the cache.
func (c *RistrettoCache) Get(key string) (string, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Put stores a value, costed by its length. Writes become visible once
// ristretto's buffers are flushed; Put waits for that.
func (c *RistrettoCache) Put(key string, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if !c.cache.SetWithTTL(key, value, int64(len(value)), ttl) {
		return fmt.Errorf("ristretto rejected key %q", key)
	}
	c.cache.Wait()
	return nil
}

// Close stops ristretto's background goroutines.
func (c *RistrettoCache) Close() {
	c.cache.Close()
}

var _ Store = (*RistrettoCache)(nil)
