package repository

import (
	"context"
	"time"
)

// SourceTMDB is the LastFetchedFrom value recorded for upstream catalog fetches.
const SourceTMDB = "tmdb"

// CacheEntry is the stored form of a catalog lookup.
// Payload is the raw upstream document, kept exactly as fetched.
// A zero CachedAt means the entry has no timestamp and is always stale.
type CacheEntry struct {
	Payload         map[string]any
	CachedAt        time.Time
	LastFetchedFrom string
}

// HasPayload reports whether the entry carries a usable payload.
func (e *CacheEntry) HasPayload() bool {
	return e != nil && len(e.Payload) > 0
}

// IsFresh reports whether the entry was cached less than ttl before now.
func (e *CacheEntry) IsFresh(now time.Time, ttl time.Duration) bool {
	if e == nil || e.CachedAt.IsZero() {
		return false
	}
	return now.Sub(e.CachedAt) < ttl
}

// EntryStore is the document store backing the catalog cache.
// Entries are overwritten on every upstream fetch and never deleted.
type EntryStore interface {
	// Get returns the entry stored under key.
	// Returns nil, nil when no entry exists (cache miss).
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set creates or overwrites the entry stored under key.
	Set(ctx context.Context, key string, entry *CacheEntry) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
