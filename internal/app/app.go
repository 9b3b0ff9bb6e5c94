// Package app wires the catalog stack shared by the web server, the warm worker and the CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/nextup/internal/config"
	"github.com/hszk-dev/nextup/internal/domain/repository"
	"github.com/hszk-dev/nextup/internal/infrastructure/cache"
	"github.com/hszk-dev/nextup/internal/infrastructure/metrics"
	"github.com/hszk-dev/nextup/internal/infrastructure/ratelimit"
	"github.com/hszk-dev/nextup/internal/infrastructure/tmdb"
	"github.com/hszk-dev/nextup/internal/usecase"
)

// ParseLogLevel maps LOG_LEVEL to a slog level. Unknown values fall back to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates the JSON logger and installs it as the slog default.
func NewLogger(w io.Writer, level string) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLogLevel(level),
	}))
	slog.SetDefault(logger)
	return logger
}

// Cache is the configured catalog entry store.
type Cache struct {
	Store repository.EntryStore
	// Type is the metrics label of the backend.
	Type  string
	close func() error
}

// Close releases the backend connection.
func (c *Cache) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// OpenCache connects to the backend selected by CACHE_BACKEND.
// A Redis backend that does not answer PING at start-up is only logged: reads
// fail open to upstream until the client reconnects.
func OpenCache(ctx context.Context, cfg *config.Config) (*Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendSQLite:
		if err := os.MkdirAll(cfg.SQLite.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
		store, err := cache.NewSQLiteEntryStore(cfg.SQLite.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite cache: %w", err)
		}
		return &Cache{Store: store, Type: metrics.CacheTypeSQLite, close: store.Close}, nil

	case config.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unreachable, serving from upstream until it recovers",
				"addr", cfg.Redis.Addr(),
				"error", err,
			)
		}
		return &Cache{Store: cache.NewRedisEntryStore(client), Type: metrics.CacheTypeRedis, close: client.Close}, nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// NewCatalog builds the catalog service on top of store.
// Each process owns exactly one limiter, shared by every upstream call it makes.
func NewCatalog(cfg *config.Config, c *Cache) (usecase.CatalogService, error) {
	client, err := tmdb.NewClient(tmdb.ClientConfig{
		APIKey:  cfg.TMDB.APIKey,
		BaseURL: cfg.TMDB.BaseURL,
		Timeout: cfg.TMDB.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create TMDB client: %w", err)
	}

	limiter := ratelimit.New(cfg.TMDB.MinRequestInterval)
	slog.Info("catalog gateway ready",
		"cache_backend", c.Type,
		"cache_ttl", cfg.Catalog.CacheTTL,
		"min_request_interval", limiter.Interval(),
	)

	return usecase.NewCatalogService(
		client,
		c.Store,
		limiter,
		usecase.CatalogServiceConfig{
			CacheTTL:      cfg.Catalog.CacheTTL,
			CacheType:     c.Type,
			LookupTimeout: cfg.Catalog.LookupTimeout,
		},
	), nil
}
