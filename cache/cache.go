package cache

import "context"

// Feed cache keys live in one place so handlers, curator and the config
// watcher agree on them.
const (
	FeaturedTracksKey  = "featuredTracks"
	FeaturedArtistsKey = "featuredArtists"
)

// Cache is a key/value store with a fixed per-entry TTL set by the
// implementation. Operations never fail: a backend outage degrades to
// "always absent", it must not surface as an error to callers.
type Cache interface {
	// Get returns the stored value and true, or nil and false when the
	// key is absent or its TTL has elapsed.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key with the cache's TTL, overwriting any
	// prior entry.
	Set(ctx context.Context, key string, value []byte)

	// Delete removes an entry immediately. Idempotent if absent.
	Delete(ctx context.Context, key string)
}
