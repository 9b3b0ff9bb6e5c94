package handler

import (
	"context"
	"sync"

	"github.com/hszk-dev/nextup/internal/domain/model"
	"github.com/hszk-dev/nextup/internal/domain/repository"
	"github.com/hszk-dev/nextup/internal/usecase"
)

type mockCatalogService struct {
	getShowFn    func(ctx context.Context, showID int) (*model.Show, error)
	getSeasonFn  func(ctx context.Context, showID, season int) (*model.Season, error)
	getEpisodeFn func(ctx context.Context, showID, season, episode int) (*model.Episode, error)
	searchFn     func(ctx context.Context, query string) ([]model.Show, error)
}

func (m *mockCatalogService) GetShow(ctx context.Context, showID int) (*model.Show, error) {
	if m.getShowFn != nil {
		return m.getShowFn(ctx, showID)
	}
	return nil, repository.ErrCatalogNotFound
}

func (m *mockCatalogService) GetSeason(ctx context.Context, showID, season int) (*model.Season, error) {
	if m.getSeasonFn != nil {
		return m.getSeasonFn(ctx, showID, season)
	}
	return nil, repository.ErrCatalogNotFound
}

func (m *mockCatalogService) GetEpisode(ctx context.Context, showID, season, episode int) (*model.Episode, error) {
	if m.getEpisodeFn != nil {
		return m.getEpisodeFn(ctx, showID, season, episode)
	}
	return nil, repository.ErrCatalogNotFound
}

func (m *mockCatalogService) SearchShows(ctx context.Context, query string) ([]model.Show, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return []model.Show{}, nil
}

type mockUserService struct {
	getPublicProfileFn func(ctx context.Context, userID string) (*usecase.UserProfile, error)
}

func (m *mockUserService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	return nil, repository.ErrUserNotFound
}

func (m *mockUserService) GetFollowedShows(ctx context.Context, userID string) []*model.FollowedShow {
	return []*model.FollowedShow{}
}

func (m *mockUserService) GetStats(ctx context.Context, userID string) model.UserStats {
	return model.UserStats{}
}

func (m *mockUserService) GetPublicProfile(ctx context.Context, userID string) (*usecase.UserProfile, error) {
	if m.getPublicProfileFn != nil {
		return m.getPublicProfileFn(ctx, userID)
	}
	return nil, repository.ErrUserNotFound
}

type warmRequest struct {
	showID int
	season int
}

type mockWarmService struct {
	mu       sync.Mutex
	requests []warmRequest
}

func (m *mockWarmService) RequestWarm(ctx context.Context, showID, season int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, warmRequest{showID: showID, season: season})
}

func (m *mockWarmService) ProcessTask(ctx context.Context, task repository.WarmTask) error {
	return nil
}
