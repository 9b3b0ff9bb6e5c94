package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hszk-dev/nextup/internal/domain/model"
	"github.com/hszk-dev/nextup/internal/domain/repository"
	"github.com/hszk-dev/nextup/internal/infrastructure/metrics"
)

const (
	// DefaultCatalogCacheTTL is how long a cached catalog document is served without refetching.
	DefaultCatalogCacheTTL = 24 * time.Hour
	// DefaultLookupTimeout bounds one shared lookup: limiter wait, store round trips and the upstream call.
	DefaultLookupTimeout = 15 * time.Second
)

// CatalogServiceConfig holds configuration for CatalogService.
type CatalogServiceConfig struct {
	// CacheTTL is the freshness window for cached catalog documents.
	CacheTTL time.Duration
	// CacheType labels cache metrics with the active backend.
	CacheType string
	// LookupTimeout bounds a lookup shared by concurrent callers of one key.
	LookupTimeout time.Duration
}

// DefaultCatalogServiceConfig returns the default configuration.
func DefaultCatalogServiceConfig() CatalogServiceConfig {
	return CatalogServiceConfig{
		CacheTTL:      DefaultCatalogCacheTTL,
		CacheType:     metrics.CacheTypeRedis,
		LookupTimeout: DefaultLookupTimeout,
	}
}

// CatalogService resolves shows, seasons and episodes through the cache.
type CatalogService interface {
	// GetShow returns the show with the given TMDB id.
	GetShow(ctx context.Context, showID int) (*model.Show, error)

	// GetSeason returns a season including its episode list.
	GetSeason(ctx context.Context, showID, season int) (*model.Season, error)

	// GetEpisode returns a single episode.
	GetEpisode(ctx context.Context, showID, season, episode int) (*model.Episode, error)

	// SearchShows runs a free-text show search. Results are not cached.
	SearchShows(ctx context.Context, query string) ([]model.Show, error)
}

// catalogService implements a read-through cache in front of the upstream catalog.
// Every upstream call waits on the shared limiter first.
type catalogService struct {
	source  repository.CatalogSource
	store   repository.EntryStore
	limiter repository.Limiter
	sfGroup singleflight.Group

	cacheTTL      time.Duration
	cacheType     string
	lookupTimeout time.Duration
	now           func() time.Time
}

// NewCatalogService creates a new CatalogService.
// The limiter is shared with every other component that calls the catalog API.
func NewCatalogService(
	source repository.CatalogSource,
	store repository.EntryStore,
	limiter repository.Limiter,
	cfg CatalogServiceConfig,
) CatalogService {
	return newCatalogService(source, store, limiter, cfg, time.Now)
}

func newCatalogService(
	source repository.CatalogSource,
	store repository.EntryStore,
	limiter repository.Limiter,
	cfg CatalogServiceConfig,
	now func() time.Time,
) *catalogService {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCatalogCacheTTL
	}
	timeout := cfg.LookupTimeout
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &catalogService{
		source:        source,
		store:         store,
		limiter:       limiter,
		cacheTTL:      ttl,
		cacheType:     cfg.CacheType,
		lookupTimeout: timeout,
		now:           now,
	}
}

func (s *catalogService) GetShow(ctx context.Context, showID int) (*model.Show, error) {
	return fetchEntity(ctx, s, model.ShowKey(showID), model.NormalizeShow)
}

func (s *catalogService) GetSeason(ctx context.Context, showID, season int) (*model.Season, error) {
	return fetchEntity(ctx, s, model.SeasonKey(showID, season), model.NormalizeSeason)
}

func (s *catalogService) GetEpisode(ctx context.Context, showID, season, episode int) (*model.Episode, error) {
	return fetchEntity(ctx, s, model.EpisodeKey(showID, season, episode), model.NormalizeEpisode)
}

func (s *catalogService) SearchShows(ctx context.Context, query string) ([]model.Show, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Show{}, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	raws, err := s.source.SearchShows(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search shows: %w", err)
	}

	return model.NormalizeShows(raws), nil
}

// fetchEntity resolves one catalog entity.
// Concurrent calls for the same key share a single lookup. The shared lookup
// runs detached from any one caller's context, so a caller that gives up only
// ends its own wait.
func fetchEntity[T any](
	ctx context.Context,
	s *catalogService,
	key model.EntityKey,
	normalize func(map[string]any) (*T, error),
) (*T, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	ch := s.sfGroup.DoChan(key.CacheKey(), func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.lookupTimeout)
		defer cancel()
		return getWithCache(lookupCtx, s, key, normalize)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}

	if res.Shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if res.Err != nil {
		return nil, res.Err
	}

	return res.Val.(*T), nil
}

// getWithCache implements the cache-aside read for one key.
// Store failures never fail the lookup; upstream failures always do and leave
// the store untouched.
func getWithCache[T any](
	ctx context.Context,
	s *catalogService,
	key model.EntityKey,
	normalize func(map[string]any) (*T, error),
) (*T, error) {
	cacheKey := key.CacheKey()
	now := s.now()

	entry, err := s.store.Get(ctx, cacheKey)
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError, s.cacheType).Inc()
		slog.Warn("cache get failed, falling back to upstream",
			"key", cacheKey,
			"error", err,
		)
		entry = nil
	}

	switch {
	case entry.HasPayload() && entry.IsFresh(now, s.cacheTTL):
		v, err := normalize(entry.Payload)
		if err == nil {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit, s.cacheType).Inc()
			slog.Debug("catalog cache hit", "key", cacheKey)
			return v, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError, s.cacheType).Inc()
		slog.Warn("cached payload is malformed, refetching",
			"key", cacheKey,
			"error", err,
		)
	case entry != nil:
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusStale, s.cacheType).Inc()
		slog.Info("catalog cache stale", "key", cacheKey, "cached_at", entry.CachedAt)
	case err == nil:
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, s.cacheType).Inc()
		slog.Debug("catalog cache miss", "key", cacheKey)
	}

	raw, err := s.fetchUpstream(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", cacheKey, err)
	}

	v, err := normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", cacheKey, err)
	}

	newEntry := &repository.CacheEntry{
		Payload:         raw,
		CachedAt:        now,
		LastFetchedFrom: repository.SourceTMDB,
	}
	if err := s.store.Set(ctx, cacheKey, newEntry); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError, s.cacheType).Inc()
		slog.Warn("failed to cache catalog entry",
			"key", cacheKey,
			"error", err,
		)
	} else {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess, s.cacheType).Inc()
	}

	return v, nil
}

// fetchUpstream waits for the limiter and calls the endpoint matching key's kind.
func (s *catalogService) fetchUpstream(ctx context.Context, key model.EntityKey) (map[string]any, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	switch key.Kind {
	case model.KindShow:
		return s.source.Show(ctx, key.ShowID)
	case model.KindSeason:
		return s.source.Season(ctx, key.ShowID, key.Season)
	case model.KindEpisode:
		return s.source.Episode(ctx, key.ShowID, key.Season, key.Episode)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", model.ErrInvalidEntityKey, key.Kind)
	}
}
