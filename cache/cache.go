// Package cache provides key-value stores for memoized backend responses.
package cache

import "time"

// Store is the interface for response caching.
type Store interface {
	// Get retrieves a cached value. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Put stores a value. A ttl of zero or less means no expiry.
	Put(key string, value string, ttl time.Duration) error
}
