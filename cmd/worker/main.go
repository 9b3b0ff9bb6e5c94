package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/hszk-dev/nextup/internal/app"
	"github.com/hszk-dev/nextup/internal/config"
	"github.com/hszk-dev/nextup/internal/domain/repository"
	"github.com/hszk-dev/nextup/internal/infrastructure/queue"
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

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	warmSvc := usecase.NewWarmService(catalogSvc, queueClient, usecase.WarmServiceConfig{
		MaxRetries: cfg.Worker.MaxRetries,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// WaitGroup to track in-flight tasks
	var wg sync.WaitGroup

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting worker, consuming warm tasks")
		err := queueClient.ConsumeWarmTasks(ctx, func(task repository.WarmTask) error {
			wg.Add(1)
			defer wg.Done()

			logger.Debug("processing task",
				slog.String("task_id", task.ID.String()),
				slog.Int("show_id", task.ShowID),
				slog.Int("season", task.Season),
				slog.Int("retry_count", task.RetryCount),
			)

			if err := warmSvc.ProcessTask(ctx, task); err != nil {
				logger.Error("task processing failed",
					slog.String("task_id", task.ID.String()),
					slog.Int("show_id", task.ShowID),
					slog.Int("retry_count", task.RetryCount),
					slog.String("error", err.Error()),
				)
				return err
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			errCh <- fmt.Errorf("consumer error: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down worker", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownTimeout)
	defer shutdownCancel()

	// Stop consuming new messages
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("all in-flight tasks completed")
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timeout exceeded, some tasks may not have completed")
	}

	logger.Info("worker stopped")
	return nil
}
