package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/nextup/internal/domain/repository"
)

const (
	// catalogCacheKeyPrefix namespaces catalog documents in Redis.
	catalogCacheKeyPrefix = "web_cache:"
)

// RedisEntryStore implements repository.EntryStore using Redis as the backing store.
// Keys are written without expiry; freshness is decided by the caller from CachedAt.
type RedisEntryStore struct {
	client *redis.Client
}

// Compile-time verification that RedisEntryStore implements repository.EntryStore.
var _ repository.EntryStore = (*RedisEntryStore)(nil)

// NewRedisEntryStore creates a new Redis-backed entry store.
func NewRedisEntryStore(client *redis.Client) *RedisEntryStore {
	return &RedisEntryStore{
		client: client,
	}
}

// Get retrieves an entry from Redis.
// Returns nil, nil on cache miss.
func (s *RedisEntryStore) Get(ctx context.Context, key string) (*repository.CacheEntry, error) {
	data, err := s.client.Get(ctx, s.buildKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	entry, err := decodeEntry(data)
	if err != nil {
		return nil, fmt.Errorf("deserialize entry %s: %w", key, err)
	}

	return entry, nil
}

// Set stores an entry in Redis, replacing any previous document.
func (s *RedisEntryStore) Set(ctx context.Context, key string, entry *repository.CacheEntry) error {
	data, err := encodeEntry(entry)
	if err != nil {
		return fmt.Errorf("serialize entry %s: %w", key, err)
	}

	if err := s.client.Set(ctx, s.buildKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Ping verifies the Redis connection is alive.
func (s *RedisEntryStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// buildKey constructs the Redis key for a catalog document.
func (s *RedisEntryStore) buildKey(key string) string {
	return catalogCacheKeyPrefix + key
}
