package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/nextup/internal/domain/repository"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, mr, cleanup
}

func TestRedisEntryStore_Get_CacheHit(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewRedisEntryStore(client)
	ctx := context.Background()

	cachedAt := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	entry := &repository.CacheEntry{
		Payload: map[string]any{
			"id":         float64(1396),
			"name":       "Breaking Bad",
			"still_path": "/s.jpg",
		},
		CachedAt:        cachedAt,
		LastFetchedFrom: repository.SourceTMDB,
	}

	if err := store.Set(ctx, "show_1396", entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, "show_1396")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got == nil {
		t.Fatal("expected entry, got nil")
	}

	if !got.CachedAt.Equal(cachedAt) {
		t.Errorf("CachedAt = %v, want %v", got.CachedAt, cachedAt)
	}
	if got.LastFetchedFrom != repository.SourceTMDB {
		t.Errorf("LastFetchedFrom = %v, want %v", got.LastFetchedFrom, repository.SourceTMDB)
	}
	if got.Payload["name"] != "Breaking Bad" {
		t.Errorf("Payload[name] = %v, want Breaking Bad", got.Payload["name"])
	}
	if got.Payload["still_path"] != "/s.jpg" {
		t.Errorf("Payload[still_path] = %v, want raw snake_case key preserved", got.Payload["still_path"])
	}
}

func TestRedisEntryStore_Get_CacheMiss(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewRedisEntryStore(client)
	ctx := context.Background()

	got, err := store.Get(ctx, "show_404")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got != nil {
		t.Errorf("expected nil for cache miss, got %v", got)
	}
}

func TestRedisEntryStore_Set_Overwrites(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewRedisEntryStore(client)
	ctx := context.Background()

	first := &repository.CacheEntry{Payload: map[string]any{"name": "Old"}, CachedAt: time.Now().Add(-48 * time.Hour)}
	second := &repository.CacheEntry{Payload: map[string]any{"name": "New"}, CachedAt: time.Now()}

	if err := store.Set(ctx, "episode_1_s1_e1", first); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, "episode_1_s1_e1", second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, "episode_1_s1_e1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Payload["name"] != "New" {
		t.Errorf("Payload[name] = %v, want New", got.Payload["name"])
	}
}

func TestRedisEntryStore_Set_NoExpiry(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewRedisEntryStore(client)
	ctx := context.Background()

	entry := &repository.CacheEntry{Payload: map[string]any{"id": float64(1)}, CachedAt: time.Now()}
	if err := store.Set(ctx, "show_1", entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if ttl := mr.TTL("web_cache:show_1"); ttl != 0 {
		t.Errorf("TTL = %v, want no expiry", ttl)
	}
}

func TestRedisEntryStore_Get_MissingTimestamp(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewRedisEntryStore(client)
	ctx := context.Background()

	if err := mr.Set("web_cache:show_7", `{"tmdbData":{"id":7}}`); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	got, err := store.Get(ctx, "show_7")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.CachedAt.IsZero() {
		t.Errorf("CachedAt = %v, want zero", got.CachedAt)
	}
	if got.IsFresh(time.Now(), 24*time.Hour) {
		t.Error("entry without timestamp reported fresh")
	}
}

func TestRedisEntryStore_Get_Malformed(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewRedisEntryStore(client)
	ctx := context.Background()

	if err := mr.Set("web_cache:show_8", "{not json"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	got, err := store.Get(ctx, "show_8")
	if err == nil {
		t.Fatal("expected error for malformed document")
	}
	if got != nil {
		t.Errorf("expected nil entry, got %v", got)
	}
}

func TestRedisEntryStore_Get_ConnectionError(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewRedisEntryStore(client)
	mr.Close()

	if _, err := store.Get(context.Background(), "show_1"); err == nil {
		t.Fatal("expected error when redis is unreachable")
	}
	if err := store.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error when redis is unreachable")
	}
}

func TestRedisEntryStore_buildKey(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewRedisEntryStore(client)

	key := store.buildKey("episode_1396_s5_e16")
	expected := "web_cache:episode_1396_s5_e16"

	if key != expected {
		t.Errorf("buildKey() = %v, want %v", key, expected)
	}
}
