package schedule

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/database"
)

// Backend is a Store that also keeps the review history.
type Backend interface {
	Store
	HistoryRepository
	Close() error
}

var (
	_ Backend = (*MemoryStore)(nil)
	_ Backend = (*YAMLStore)(nil)
	_ Backend = (*DBStore)(nil)
	_ Backend = (*RedisStore)(nil)
)

// Open creates the backend selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return NewMemoryStore(), nil
	case config.StoreDriverYAML:
		return NewYAMLStore(cfg.Store.YAMLFile), nil
	case config.StoreDriverSQLite:
		db, err := database.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("database.OpenSQLite() > %w", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("database.Migrate() > %w", err)
		}
		return NewDBStore(db), nil
	case config.StoreDriverMySQL:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database.Open() > %w", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("database.Migrate() > %w", err)
		}
		return NewDBStore(db), nil
	case config.StoreDriverRedis:
		store, err := NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("NewRedisStore() > %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
