package cloudtranslate

import (
	"time"

	"github.com/ZaguanLabs/cloudtranslate/cache"
	"github.com/rs/zerolog"
)

// ForeverTTL is the lifetime of memoized responses. Entries only disappear
// through eviction in the store itself.
const ForeverTTL = 9999999 * time.Second

// CachedCall returns the cached value for key, or runs compute and stores its
// result. When enabled is false the cache is not read, but the fresh result
// is still written. Errors from compute are returned unchanged and nothing is
// stored. There is no locking: concurrent misses recompute and the last write wins.
func CachedCall[T any](store cache.Store, key string, enabled bool, compute func() (T, error)) (T, error) {
	return cachedCall(store, zerolog.Nop(), key, enabled, compute)
}

func cachedCall[T any](store cache.Store, log zerolog.Logger, key string, enabled bool, compute func() (T, error)) (T, error) {
	if enabled && store != nil {
		if raw, ok := store.Get(key); ok {
			value, err := cache.Deserialize[T](raw)
			if err == nil {
				log.Debug().Str("key", key).Msg("cache hit")
				return value, nil
			}
			log.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		}
	}

	log.Debug().Str("key", key).Bool("cache_enabled", enabled).Msg("cache miss, calling backend")

	value, err := compute()
	if err != nil {
		return value, err
	}

	if store != nil {
		raw, serr := cache.Serialize(value)
		if serr == nil {
			serr = store.Put(key, raw, ForeverTTL)
		}
		if serr != nil {
			// Store failures don't fail the call.
			log.Warn().Err(serr).Str("key", key).Msg("cache write failed")
		}
	}

	return value, nil
}
