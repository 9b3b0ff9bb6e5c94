package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/hszk-dev/nextup/internal/app"
	"github.com/hszk-dev/nextup/internal/config"
	"github.com/hszk-dev/nextup/internal/domain/repository"
	"github.com/hszk-dev/nextup/internal/infrastructure/queue"
	"github.com/hszk-dev/nextup/internal/usecase"
)

type catalogOpener func(ctx context.Context, cfg *config.Config) (usecase.CatalogService, func() error, error)

type publisherOpener func(ctx context.Context, cfg *config.Config) (repository.WarmPublisher, func() error, error)

type commandContext struct {
	jsonOutput bool

	loadConfig    func() (*config.Config, error)
	openCatalog   catalogOpener
	openPublisher publisherOpener

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{
		loadConfig:    config.Load,
		openCatalog:   openCatalog,
		openPublisher: openPublisher,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := c.loadConfig()
		if err != nil {
			c.configErr = err
			return
		}
		// Keep JSON logs off stdout so table and --json output stay parseable.
		app.NewLogger(os.Stderr, cfg.LogLevel)
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) withCatalog(ctx context.Context, fn func(usecase.CatalogService) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	catalog, closeFn, err := c.openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(catalog)
}

func (c *commandContext) withPublisher(ctx context.Context, fn func(repository.WarmPublisher) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	publisher, closeFn, err := c.openPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(publisher)
}

func openCatalog(ctx context.Context, cfg *config.Config) (usecase.CatalogService, func() error, error) {
	catalogCache, err := app.OpenCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := app.NewCatalog(cfg, catalogCache)
	if err != nil {
		catalogCache.Close()
		return nil, nil, err
	}
	return catalog, catalogCache.Close, nil
}

func openPublisher(ctx context.Context, cfg *config.Config) (repository.WarmPublisher, func() error, error) {
	client, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return client, client.Close, nil
}
