package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/nextup/internal/domain/model"
	"github.com/hszk-dev/nextup/internal/domain/repository"
	"github.com/hszk-dev/nextup/internal/infrastructure/metrics"
)

const (
	// DefaultMaxRetries is the default number of redeliveries before a warm task is dropped.
	DefaultMaxRetries = 3
	// DefaultWarmDedupeWindow is how long a published season is not requested again.
	DefaultWarmDedupeWindow = time.Hour

	// maxRecentWarms bounds the dedupe set; expired keys are pruned when it is reached.
	maxRecentWarms = 10000
)

// WarmServiceConfig holds configuration for WarmService.
type WarmServiceConfig struct {
	// MaxRetries is the number of redeliveries before a task is dropped.
	MaxRetries int
	// DedupeWindow suppresses repeat RequestWarm calls for the same season.
	DedupeWindow time.Duration
}

// DefaultWarmServiceConfig returns the default configuration.
func DefaultWarmServiceConfig() WarmServiceConfig {
	return WarmServiceConfig{
		MaxRetries:   DefaultMaxRetries,
		DedupeWindow: DefaultWarmDedupeWindow,
	}
}

// WarmService pre-populates the catalog cache for a season's episodes.
type WarmService interface {
	// RequestWarm enqueues a warm task. Publish failures are logged, not returned,
	// so page rendering never depends on the queue. A season already published
	// within the dedupe window is skipped.
	RequestWarm(ctx context.Context, showID, season int)

	// ProcessTask handles a warm task from the message queue.
	// Returns nil on success or when the task is dropped after too many retries.
	// Returns error for failures that should trigger a retry.
	ProcessTask(ctx context.Context, task repository.WarmTask) error
}

type warmService struct {
	catalog   CatalogService
	publisher repository.WarmPublisher

	maxRetries   int
	dedupeWindow time.Duration
	now          func() time.Time

	mu     sync.Mutex
	recent map[model.EntityKey]time.Time
}

// NewWarmService creates a new WarmService.
// publisher may be nil on the worker side, where only ProcessTask is used.
func NewWarmService(
	catalog CatalogService,
	publisher repository.WarmPublisher,
	cfg WarmServiceConfig,
) WarmService {
	return newWarmService(catalog, publisher, cfg, time.Now)
}

func newWarmService(
	catalog CatalogService,
	publisher repository.WarmPublisher,
	cfg WarmServiceConfig,
	now func() time.Time,
) *warmService {
	window := cfg.DedupeWindow
	if window <= 0 {
		window = DefaultWarmDedupeWindow
	}
	return &warmService{
		catalog:      catalog,
		publisher:    publisher,
		maxRetries:   cfg.MaxRetries,
		dedupeWindow: window,
		now:          now,
		recent:       make(map[model.EntityKey]time.Time),
	}
}

func (s *warmService) RequestWarm(ctx context.Context, showID, season int) {
	if s.publisher == nil {
		return
	}
	key := model.SeasonKey(showID, season)
	if err := key.Validate(); err != nil {
		return
	}
	if !s.claim(key) {
		return
	}

	task := repository.WarmTask{
		ID:     uuid.New(),
		ShowID: showID,
		Season: season,
	}
	if err := s.publisher.PublishWarmTask(ctx, task); err != nil {
		slog.Warn("failed to publish warm task",
			"task_id", task.ID,
			"show_id", showID,
			"season", season,
			"error", err,
		)
		s.release(key)
		return
	}
	metrics.WarmTasksTotal.WithLabelValues(metrics.WarmPublished).Inc()
}

// claim records key as published unless it already was within the window.
func (s *warmService) claim(key model.EntityKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if at, ok := s.recent[key]; ok && now.Sub(at) < s.dedupeWindow {
		return false
	}
	if len(s.recent) >= maxRecentWarms {
		for k, at := range s.recent {
			if now.Sub(at) >= s.dedupeWindow {
				delete(s.recent, k)
			}
		}
	}
	s.recent[key] = now
	return true
}

// release forgets key so a failed publish is retried on the next request.
func (s *warmService) release(key model.EntityKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recent, key)
}

// ProcessTask resolves the season and then each of its episodes through the
// catalog, leaving every lookup cached.
func (s *warmService) ProcessTask(ctx context.Context, task repository.WarmTask) error {
	if task.RetryCount >= s.maxRetries {
		metrics.WarmTasksTotal.WithLabelValues(metrics.WarmDropped).Inc()
		slog.Error("dropping warm task after max retries",
			"task_id", task.ID,
			"show_id", task.ShowID,
			"season", task.Season,
			"retry_count", task.RetryCount,
		)
		return nil
	}

	season, err := s.catalog.GetSeason(ctx, task.ShowID, task.Season)
	if err != nil {
		// A season that does not exist will never warm; ack it.
		if errors.Is(err, repository.ErrCatalogNotFound) || errors.Is(err, model.ErrInvalidEntityKey) {
			metrics.WarmTasksTotal.WithLabelValues(metrics.WarmDropped).Inc()
			slog.Warn("dropping warm task for unknown season",
				"task_id", task.ID,
				"show_id", task.ShowID,
				"season", task.Season,
				"error", err,
			)
			return nil
		}
		metrics.WarmTasksTotal.WithLabelValues(metrics.WarmFailed).Inc()
		return fmt.Errorf("warm season: %w", err)
	}

	var missing int
	for _, ep := range season.Episodes {
		if ep.EpisodeNumber <= 0 {
			continue
		}
		if _, err := s.catalog.GetEpisode(ctx, task.ShowID, task.Season, ep.EpisodeNumber); err != nil {
			if errors.Is(err, repository.ErrCatalogNotFound) {
				missing++
				continue
			}
			metrics.WarmTasksTotal.WithLabelValues(metrics.WarmFailed).Inc()
			return fmt.Errorf("warm episode %d: %w", ep.EpisodeNumber, err)
		}
	}

	metrics.WarmTasksTotal.WithLabelValues(metrics.WarmProcessed).Inc()
	slog.Info("warm task processed",
		"task_id", task.ID,
		"show_id", task.ShowID,
		"season", task.Season,
		"episodes", len(season.Episodes),
		"missing", missing,
	)
	return nil
}
