package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/recall/internal/bootstrap"
	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/review"
	"github.com/at-ishikawa/recall/internal/schedule"
	"github.com/at-ishikawa/recall/internal/server"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "recall-server",
		Short:         "Recall review service HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	srv, backend, err := newServer(ctx, cfg)
	if err != nil {
		return err
	}
	app.AddShutdownHook("store", func(ctx context.Context) error {
		return backend.Close()
	})
	app.AddShutdownHook("http server", srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Default().Info("starting server",
			slog.String("addr", srv.Addr),
			slog.String("store", cfg.Store.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

// newServer opens the store and builds the HTTP server exposing the review service.
func newServer(ctx context.Context, cfg *config.Config) (*http.Server, schedule.Backend, error) {
	table, err := cfg.Scheduler.Intervals.Table()
	if err != nil {
		return nil, nil, fmt.Errorf("cfg.Scheduler.Intervals.Table() > %w", err)
	}

	backend, err := schedule.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("schedule.Open() > %w", err)
	}

	service := review.NewService(backend, backend,
		review.WithIntervalTable(table),
		review.WithRetry(cfg.Review.MaxRetryAttempts, cfg.Review.RetryDelay),
	)
	path, h := server.NewReviewServiceHandler(server.NewReviewHandler(service, cfg.Review.DueLimit))

	mux := http.NewServeMux()
	mux.Handle(path, h)

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.CORSMiddleware(h2c.NewHandler(mux, &http2.Server{}), cfg.Server.CORS.AllowedOrigins),
	}, backend, nil
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}
