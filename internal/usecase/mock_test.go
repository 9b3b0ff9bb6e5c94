package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hszk-dev/nextup/internal/domain/model"
	"github.com/hszk-dev/nextup/internal/domain/repository"
)

// mockCatalogSource provides a configurable mock for CatalogSource.
type mockCatalogSource struct {
	showFn    func(ctx context.Context, showID int) (map[string]any, error)
	seasonFn  func(ctx context.Context, showID, season int) (map[string]any, error)
	episodeFn func(ctx context.Context, showID, season, episode int) (map[string]any, error)
	searchFn  func(ctx context.Context, query string) ([]map[string]any, error)

	calls atomic.Int32
}

func (m *mockCatalogSource) Show(ctx context.Context, showID int) (map[string]any, error) {
	m.calls.Add(1)
	if m.showFn != nil {
		return m.showFn(ctx, showID)
	}
	return map[string]any{"id": float64(showID), "name": "Show"}, nil
}

func (m *mockCatalogSource) Season(ctx context.Context, showID, season int) (map[string]any, error) {
	m.calls.Add(1)
	if m.seasonFn != nil {
		return m.seasonFn(ctx, showID, season)
	}
	return map[string]any{"id": float64(1), "season_number": float64(season)}, nil
}

func (m *mockCatalogSource) Episode(ctx context.Context, showID, season, episode int) (map[string]any, error) {
	m.calls.Add(1)
	if m.episodeFn != nil {
		return m.episodeFn(ctx, showID, season, episode)
	}
	return map[string]any{
		"id":             float64(episode),
		"season_number":  float64(season),
		"episode_number": float64(episode),
	}, nil
}

func (m *mockCatalogSource) SearchShows(ctx context.Context, query string) ([]map[string]any, error) {
	m.calls.Add(1)
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return nil, nil
}

// mockEntryStore provides a map-backed mock for EntryStore.
type mockEntryStore struct {
	mu    sync.RWMutex
	data  map[string]*repository.CacheEntry
	getFn func(ctx context.Context, key string) (*repository.CacheEntry, error)
	setFn func(ctx context.Context, key string, entry *repository.CacheEntry) error

	sets atomic.Int32
}

func newMockEntryStore() *mockEntryStore {
	return &mockEntryStore{
		data: make(map[string]*repository.CacheEntry),
	}
}

func (m *mockEntryStore) Get(ctx context.Context, key string) (*repository.CacheEntry, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *mockEntryStore) Set(ctx context.Context, key string, entry *repository.CacheEntry) error {
	m.sets.Add(1)
	if m.setFn != nil {
		return m.setFn(ctx, key, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = entry
	return nil
}

func (m *mockEntryStore) Ping(ctx context.Context) error {
	return nil
}

func (m *mockEntryStore) entry(key string) *repository.CacheEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key]
}

// mockLimiter records every Wait call.
type mockLimiter struct {
	waitFn func(ctx context.Context) error
	waits  atomic.Int32
}

func (m *mockLimiter) Wait(ctx context.Context) error {
	m.waits.Add(1)
	if m.waitFn != nil {
		return m.waitFn(ctx)
	}
	return nil
}

// mockCatalogService provides a configurable mock for CatalogService.
type mockCatalogService struct {
	getShowFn    func(ctx context.Context, showID int) (*model.Show, error)
	getSeasonFn  func(ctx context.Context, showID, season int) (*model.Season, error)
	getEpisodeFn func(ctx context.Context, showID, season, episode int) (*model.Episode, error)
	searchFn     func(ctx context.Context, query string) ([]model.Show, error)

	episodeCalls atomic.Int32
}

func (m *mockCatalogService) GetShow(ctx context.Context, showID int) (*model.Show, error) {
	if m.getShowFn != nil {
		return m.getShowFn(ctx, showID)
	}
	return &model.Show{ID: showID}, nil
}

func (m *mockCatalogService) GetSeason(ctx context.Context, showID, season int) (*model.Season, error) {
	if m.getSeasonFn != nil {
		return m.getSeasonFn(ctx, showID, season)
	}
	return &model.Season{SeasonNumber: season}, nil
}

func (m *mockCatalogService) GetEpisode(ctx context.Context, showID, season, episode int) (*model.Episode, error) {
	m.episodeCalls.Add(1)
	if m.getEpisodeFn != nil {
		return m.getEpisodeFn(ctx, showID, season, episode)
	}
	return &model.Episode{SeasonNumber: season, EpisodeNumber: episode}, nil
}

func (m *mockCatalogService) SearchShows(ctx context.Context, query string) ([]model.Show, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return []model.Show{}, nil
}

// mockUserRepository provides a configurable mock for UserRepository.
type mockUserRepository struct {
	getByIDFn          func(ctx context.Context, userID string) (*model.User, error)
	getFollowedShowsFn func(ctx context.Context, userID string, limit int) ([]*model.FollowedShow, error)
	getStatsFn         func(ctx context.Context, userID string) (*model.UserStats, error)

	followedCalls atomic.Int32
	statsCalls    atomic.Int32
}

func (m *mockUserRepository) GetByID(ctx context.Context, userID string) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, userID)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) GetFollowedShows(ctx context.Context, userID string, limit int) ([]*model.FollowedShow, error) {
	m.followedCalls.Add(1)
	if m.getFollowedShowsFn != nil {
		return m.getFollowedShowsFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockUserRepository) GetStats(ctx context.Context, userID string) (*model.UserStats, error) {
	m.statsCalls.Add(1)
	if m.getStatsFn != nil {
		return m.getStatsFn(ctx, userID)
	}
	return &model.UserStats{}, nil
}

// mockObjectStorage provides a configurable mock for ObjectStorage.
type mockObjectStorage struct {
	generatePresignedDownloadURLFn func(ctx context.Context, key string, expiry time.Duration) (string, error)
	existsFn                       func(ctx context.Context, key string) (bool, error)
}

func (m *mockObjectStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.generatePresignedDownloadURLFn != nil {
		return m.generatePresignedDownloadURLFn(ctx, key, expiry)
	}
	return "http://example.com/download/" + key, nil
}

func (m *mockObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

// mockWarmPublisher provides a configurable mock for WarmPublisher.
type mockWarmPublisher struct {
	mu        sync.Mutex
	published []repository.WarmTask
	publishFn func(ctx context.Context, task repository.WarmTask) error
}

func (m *mockWarmPublisher) PublishWarmTask(ctx context.Context, task repository.WarmTask) error {
	if m.publishFn != nil {
		return m.publishFn(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, task)
	return nil
}
