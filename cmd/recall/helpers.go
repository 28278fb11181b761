package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/recall/internal/client"
	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/review"
	"github.com/at-ishikawa/recall/internal/schedule"
)

var errRemoteUnsupported = errors.New("this command reads the whole store and cannot run with --remote")

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// openLocal opens the configured store and wraps it in a review service.
// The caller must close the returned backend.
func openLocal(ctx context.Context, cfg *config.Config) (*review.Service, schedule.Backend, error) {
	table, err := cfg.Scheduler.Intervals.Table()
	if err != nil {
		return nil, nil, fmt.Errorf("cfg.Scheduler.Intervals.Table() > %w", err)
	}

	backend, err := schedule.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("schedule.Open() > %w", err)
	}
	slog.Default().Debug("opened store", slog.String("driver", cfg.Store.Driver))

	service := review.NewService(backend, backend,
		review.WithIntervalTable(table),
		review.WithRetry(cfg.Review.MaxRetryAttempts, cfg.Review.RetryDelay),
	)
	return service, backend, nil
}

// withReviewer runs fn with either a remote client or a local review service.
func withReviewer(ctx context.Context, fn func(reviewer review.Reviewer, cfg *config.Config) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if remoteMode {
		if cfg.Remote.URL == "" {
			return fmt.Errorf("--remote requires remote.url or RECALL_SERVER_URL to be set")
		}
		slog.Default().Debug("using recall server", slog.String("url", cfg.Remote.URL))
		return fn(client.New(cfg.Remote), cfg)
	}

	service, backend, err := openLocal(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := backend.Close(); closeErr != nil {
			slog.Default().Warn("failed to close the store", slog.Any("error", closeErr))
		}
	}()
	return fn(service, cfg)
}

// withLocalService runs fn with a local review service and its backend.
func withLocalService(ctx context.Context, fn func(service *review.Service, backend schedule.Backend, cfg *config.Config) error) error {
	if remoteMode {
		return errRemoteUnsupported
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	service, backend, err := openLocal(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := backend.Close(); closeErr != nil {
			slog.Default().Warn("failed to close the store", slog.Any("error", closeErr))
		}
	}()
	return fn(service, backend, cfg)
}
