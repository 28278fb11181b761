// Package bootstrap provides application lifecycle helpers.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// DefaultShutdownTimeout bounds how long shutdown hooks may run in total.
const DefaultShutdownTimeout = 10 * time.Second

// App manages application lifecycle with graceful shutdown support.
type App struct {
	mu              sync.Mutex
	hooks           []namedHook
	shutdownTimeout time.Duration
}

type namedHook struct {
	name string
	fn   func(ctx context.Context) error
}

// New creates a new App.
func New() *App {
	return &App{
		shutdownTimeout: DefaultShutdownTimeout,
	}
}

// SetShutdownTimeout replaces DefaultShutdownTimeout.
func (a *App) SetShutdownTimeout(timeout time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.shutdownTimeout = timeout
}

// AddShutdownHook registers a function to call during graceful shutdown.
// Hooks run in reverse order (LIFO). Thread-safe.
func (a *App) AddShutdownHook(name string, fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, namedHook{name: name, fn: fn})
}

// Run sets up signal handling and executes the run function.
// On SIGINT or SIGTERM, or when ctx is done, it calls registered shutdown hooks in LIFO order.
// If run returns before that, its error is returned and the hooks still run.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Default().Info("shutting down", slog.Any("cause", context.Cause(ctx)))
		return a.shutdown()
	case err := <-errCh:
		return errors.Join(err, a.shutdown())
	}
}

func (a *App) shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var errs []error
	for i := len(a.hooks) - 1; i >= 0; i-- {
		hook := a.hooks[i]
		if err := hook.fn(ctx); err != nil {
			slog.Default().Warn("shutdown hook failed",
				slog.String("hook", hook.name),
				slog.Any("error", err),
			)
			errs = append(errs, err)
		}
	}
	a.hooks = nil
	return errors.Join(errs...)
}
