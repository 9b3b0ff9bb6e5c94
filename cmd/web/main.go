package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hszk-dev/nextup/internal/api/handler"
	"github.com/hszk-dev/nextup/internal/api/middleware"
	"github.com/hszk-dev/nextup/internal/app"
	"github.com/hszk-dev/nextup/internal/config"
	"github.com/hszk-dev/nextup/internal/domain/repository"
	"github.com/hszk-dev/nextup/internal/infrastructure/metrics"
	"github.com/hszk-dev/nextup/internal/infrastructure/postgres"
	"github.com/hszk-dev/nextup/internal/infrastructure/queue"
	"github.com/hszk-dev/nextup/internal/infrastructure/storage"
	"github.com/hszk-dev/nextup/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := app.NewLogger(os.Stdout, cfg.LogLevel)

	catalogCache, err := app.OpenCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer catalogCache.Close()
	logger.Info("catalog cache ready", slog.String("backend", catalogCache.Type))

	catalogSvc, err := app.NewCatalog(cfg, catalogCache)
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	prometheus.MustRegister(pgClient.PoolCollector(metrics.Namespace))
	logger.Info("connected to PostgreSQL")

	if cfg.Database.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pgClient.Pool()); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	checks := map[string]handler.Pinger{
		"cache":    catalogCache.Store,
		"postgres": pgClient,
	}

	// Avatars are optional: profiles render initials when storage is unavailable.
	var avatars repository.ObjectStorage
	if cfg.MinIO.Enabled() {
		storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
			Endpoint:       cfg.MinIO.Endpoint,
			PublicEndpoint: cfg.MinIO.PublicEndpoint,
			AccessKey:      cfg.MinIO.AccessKey,
			SecretKey:      cfg.MinIO.SecretKey,
			Bucket:         cfg.MinIO.Bucket,
			UseSSL:         cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("avatar storage unavailable", slog.String("error", err.Error()))
		} else {
			avatars = storageClient
			checks["storage"] = storageClient
			logger.Info("connected to MinIO")
		}
	}

	var publisher repository.WarmPublisher = queue.NoopPublisher{}
	if cfg.Worker.WarmEnabled {
		queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
		if err != nil {
			logger.Warn("cache warming disabled", slog.String("error", err.Error()))
		} else {
			defer queueClient.Close()
			publisher = queueClient
			logger.Info("connected to RabbitMQ")
		}
	}

	userSvc := usecase.NewUserService(
		postgres.NewUserRepository(pgClient.Pool()),
		avatars,
		usecase.UserServiceConfig{
			FollowedShowsLimit: usecase.DefaultFollowedShowsLimit,
			AvatarURLExpiry:    cfg.MinIO.AvatarURLExpiry,
		},
	)
	warmSvc := usecase.NewWarmService(catalogSvc, publisher, usecase.WarmServiceConfig{
		MaxRetries:   cfg.Worker.MaxRetries,
		DedupeWindow: cfg.Worker.WarmDedupeWindow,
	})

	renderer, err := handler.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	pages := handler.NewPageHandler(catalogSvc, userSvc, warmSvc, renderer, handler.SiteInfo{
		BaseURL:     cfg.Site.BaseURL,
		AppStoreURL: cfg.Site.AppStoreURL,
	})

	r := setupRouter(logger, pages, handler.NewSearchHandler(catalogSvc), handler.NewHealthHandler(checks))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupRouter(
	logger *slog.Logger,
	pages *handler.PageHandler,
	search *handler.SearchHandler,
	health http.Handler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Metrics)

	r.Method(http.MethodGet, "/health", health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/api/search", search.Search)

	r.Get("/", pages.Home)
	r.Get("/terms", pages.Terms)
	r.Get("/privacy", pages.Privacy)
	r.Get("/show/{slug}", pages.Show)
	r.Get("/show/{slug}/season/{season}/episode/{episode}", pages.Episode)
	r.Get("/user/{userID}", pages.User)

	r.NotFound(pages.NotFound)

	return r
}
