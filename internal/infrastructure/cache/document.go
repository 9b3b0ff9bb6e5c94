package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hszk-dev/nextup/internal/domain/repository"
)

// document is the stored JSON form of a cache entry.
// Field names match the documents written by the mobile backend so both can
// share a store.
type document struct {
	TMDBData        map[string]any `json:"tmdbData"`
	CachedAt        *time.Time     `json:"cachedAt,omitempty"`
	LastFetchedFrom string         `json:"lastFetchedFrom,omitempty"`
}

func encodeEntry(entry *repository.CacheEntry) ([]byte, error) {
	doc := document{
		TMDBData:        entry.Payload,
		LastFetchedFrom: entry.LastFetchedFrom,
	}
	if !entry.CachedAt.IsZero() {
		t := entry.CachedAt.UTC()
		doc.CachedAt = &t
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal cache entry: %w", err)
	}
	return data, nil
}

// decodeEntry parses a stored document. A missing cachedAt yields a zero time.
func decodeEntry(data []byte) (*repository.CacheEntry, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal cache entry: %w", err)
	}

	entry := &repository.CacheEntry{
		Payload:         doc.TMDBData,
		LastFetchedFrom: doc.LastFetchedFrom,
	}
	if doc.CachedAt != nil {
		entry.CachedAt = *doc.CachedAt
	}
	return entry, nil
}
