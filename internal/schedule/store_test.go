package schedule

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/database"
	"github.com/at-ishikawa/recall/internal/scheduler"
)

var baseTime = time.Date(2025, 1, 2, 3, 4, 5, 6, time.UTC)

func newItem(id string, reviewCount int, nextReviewAt time.Time) scheduler.ScheduledItem {
	return scheduler.ScheduledItem{
		ItemID:                id,
		NextReviewAt:          nextReviewAt,
		ReviewCount:           reviewCount,
		LastAttemptSuccessful: reviewCount > 1,
		IntervalMultiplier:    1.5,
		Difficulty:            scheduler.Good,
	}
}

func backendFactories(t *testing.T) map[string]func(t *testing.T) Backend {
	t.Helper()
	factories := map[string]func(t *testing.T) Backend{
		"memory": func(t *testing.T) Backend {
			return NewMemoryStore()
		},
		"yaml": func(t *testing.T) Backend {
			return NewYAMLStore(filepath.Join(t.TempDir(), "data", "schedule.yml"))
		},
		"sqlite": func(t *testing.T) Backend {
			db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "recall.db"))
			require.NoError(t, err)
			require.NoError(t, database.Migrate(context.Background(), db))
			return NewDBStore(db)
		},
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		factories["redis"] = func(t *testing.T) Backend {
			store, err := NewRedisStore(context.Background(), config.RedisConfig{
				Addr:      addr,
				KeyPrefix: "recall-test:" + t.Name(),
			})
			require.NoError(t, err)
			t.Cleanup(func() {
				ctx := context.Background()
				keys, _ := store.rdb.Keys(ctx, store.prefix+":*").Result()
				if len(keys) > 0 {
					store.rdb.Del(ctx, keys...)
				}
			})
			return store
		}
	}
	return factories
}

func TestBackends(t *testing.T) {
	for name, factory := range backendFactories(t) {
		t.Run(name, func(t *testing.T) {
			testBackend(t, factory)
		})
	}
}

func testBackend(t *testing.T, newBackend func(t *testing.T) Backend) {
	ctx := context.Background()

	open := func(t *testing.T) Backend {
		backend := newBackend(t)
		t.Cleanup(func() {
			_ = backend.Close()
		})
		return backend
	}

	t.Run("find returns nil for unknown items", func(t *testing.T) {
		backend := open(t)

		got, err := backend.Find(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)

		all, err := backend.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("saves a chain of records", func(t *testing.T) {
		backend := open(t)

		first := newItem("card-1", 1, baseTime.Add(5*time.Minute))
		first.LastAttemptSuccessful = false
		require.NoError(t, backend.Save(ctx, first))

		got, err := backend.Find(ctx, "card-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, first, *got)

		second := newItem("card-1", 2, baseTime.Add(90*time.Minute))
		require.NoError(t, backend.Save(ctx, second))

		got, err = backend.Find(ctx, "card-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, second, *got)
	})

	t.Run("graduated items keep the never sentinel", func(t *testing.T) {
		backend := open(t)

		require.NoError(t, backend.Save(ctx, newItem("card-1", 1, baseTime)))
		graduated := newItem("card-1", 2, scheduler.Never)
		graduated.Difficulty = scheduler.Easy
		require.NoError(t, backend.Save(ctx, graduated))

		got, err := backend.Find(ctx, "card-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.IsGraduated())
		assert.True(t, got.NextReviewAt.Equal(scheduler.Never))
		assert.False(t, got.IsDue(baseTime.AddDate(100, 0, 0)))
	})

	t.Run("round-trips far-future schedules", func(t *testing.T) {
		backend := open(t)
		farFuture := time.Date(2300, 6, 1, 12, 30, 0, 123456789, time.UTC)

		first := newItem("card-1", 1, farFuture)
		first.LastAttemptSuccessful = false
		require.NoError(t, backend.Save(ctx, first))
		second := newItem("card-1", 2, scheduler.Never.Add(-time.Second))
		require.NoError(t, backend.Save(ctx, second))

		got, err := backend.Find(ctx, "card-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, second, *got)
		assert.False(t, got.IsGraduated())
		assert.False(t, got.IsDue(baseTime))

		log := NewReviewLog(first, false, baseTime)
		require.NoError(t, backend.AppendLogs(ctx, log))
		logs, err := backend.FindLogs(ctx, "card-1")
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, log, logs[0])
		assert.Equal(t, first, logs[0].Item())
	})

	t.Run("rejects records that do not succeed the stored one", func(t *testing.T) {
		backend := open(t)
		require.NoError(t, backend.Save(ctx, newItem("card-1", 1, baseTime)))

		assert.ErrorIs(t, backend.Save(ctx, newItem("card-1", 1, baseTime)), ErrStaleRecord)
		assert.ErrorIs(t, backend.Save(ctx, newItem("card-1", 3, baseTime)), ErrStaleRecord)
		assert.ErrorIs(t, backend.Save(ctx, newItem("card-2", 2, baseTime)), ErrStaleRecord)

		got, err := backend.Find(ctx, "card-1")
		require.NoError(t, err)
		assert.Equal(t, 1, got.ReviewCount)
	})

	t.Run("rejects invalid records", func(t *testing.T) {
		backend := open(t)

		assert.ErrorIs(t, backend.Save(ctx, newItem("", 1, baseTime)), ErrInvalidRecord)
		assert.ErrorIs(t, backend.Save(ctx, newItem("card-1", 0, baseTime)), ErrInvalidRecord)
		invalid := newItem("card-1", 1, baseTime)
		invalid.Difficulty = scheduler.Difficulty(0)
		assert.ErrorIs(t, backend.Save(ctx, invalid), ErrInvalidRecord)
	})

	t.Run("only one concurrent successor wins", func(t *testing.T) {
		backend := open(t)
		require.NoError(t, backend.Save(ctx, newItem("card-1", 1, baseTime)))

		const writers = 5
		var wg sync.WaitGroup
		errs := make([]error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = backend.Save(ctx, newItem("card-1", 2, baseTime.Add(time.Duration(i)*time.Minute)))
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, ErrStaleRecord)
		}
		assert.Equal(t, 1, succeeded)
	})

	t.Run("find all is ordered by item id", func(t *testing.T) {
		backend := open(t)
		for _, id := range []string{"card-3", "card-1", "card-2"} {
			require.NoError(t, backend.Save(ctx, newItem(id, 1, baseTime)))
		}

		all, err := backend.FindAll(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, len(all))
		for _, item := range all {
			ids = append(ids, item.ItemID)
		}
		assert.Equal(t, []string{"card-1", "card-2", "card-3"}, ids)
	})

	t.Run("delete", func(t *testing.T) {
		backend := open(t)
		require.NoError(t, backend.Save(ctx, newItem("card-1", 1, baseTime)))

		require.NoError(t, backend.Delete(ctx, "card-1"))
		got, err := backend.Find(ctx, "card-1")
		require.NoError(t, err)
		assert.Nil(t, got)

		assert.ErrorIs(t, backend.Delete(ctx, "card-1"), ErrNotFound)
		// A deleted item can be scheduled again from scratch
		assert.NoError(t, backend.Save(ctx, newItem("card-1", 1, baseTime)))
	})

	t.Run("review logs", func(t *testing.T) {
		backend := open(t)

		first := NewReviewLog(newItem("card-1", 1, baseTime.Add(5*time.Minute)), false, baseTime)
		other := NewReviewLog(newItem("card-2", 1, baseTime.Add(time.Hour)), true, baseTime.Add(time.Second))
		second := NewReviewLog(newItem("card-1", 2, scheduler.Never), true, baseTime.Add(time.Minute))
		require.NoError(t, backend.AppendLogs(ctx, first, other))
		require.NoError(t, backend.AppendLogs(ctx, second))
		require.NoError(t, backend.AppendLogs(ctx))

		logs, err := backend.FindLogs(ctx, "card-1")
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, first, logs[0])
		assert.Equal(t, second.ID, logs[1].ID)
		assert.True(t, logs[1].NextReviewAt.Equal(scheduler.Never))

		all, err := backend.FindAllLogs(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{first.ID, other.ID, second.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

		require.NoError(t, backend.DeleteLogs(ctx, "card-1"))
		logs, err = backend.FindLogs(ctx, "card-1")
		require.NoError(t, err)
		assert.Empty(t, logs)
		all, err = backend.FindAllLogs(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestReviewLog_Item(t *testing.T) {
	first := newItem("card-1", 1, baseTime)
	first.LastAttemptSuccessful = false
	assert.Equal(t, first, NewReviewLog(first, true, baseTime).Item())

	second := newItem("card-1", 2, baseTime)
	assert.Equal(t, second, NewReviewLog(second, true, baseTime).Item())
}

func TestNewReviewLog_IDsSortByReviewTime(t *testing.T) {
	item := newItem("card-1", 1, baseTime)
	earlier := NewReviewLog(item, true, baseTime)
	later := NewReviewLog(item, true, baseTime.Add(time.Millisecond))
	assert.Less(t, earlier.ID, later.ID)
	assert.Len(t, earlier.ID, 26)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		want    interface{}
		wantErr bool
	}{
		{
			name: "memory",
			cfg:  config.Config{Store: config.StoreConfig{Driver: config.StoreDriverMemory}},
			want: &MemoryStore{},
		},
		{
			name: "yaml",
			cfg:  config.Config{Store: config.StoreConfig{Driver: config.StoreDriverYAML, YAMLFile: "schedule.yml"}},
			want: &YAMLStore{},
		},
		{
			name: "sqlite",
			cfg:  config.Config{Store: config.StoreConfig{Driver: config.StoreDriverSQLite, SQLitePath: "recall.db"}},
			want: &DBStore{},
		},
		{
			name:    "unknown driver",
			cfg:     config.Config{Store: config.StoreConfig{Driver: "postgres"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := tt.cfg
			if cfg.Store.SQLitePath != "" {
				cfg.Store.SQLitePath = filepath.Join(dir, cfg.Store.SQLitePath)
			}
			if cfg.Store.YAMLFile != "" {
				cfg.Store.YAMLFile = filepath.Join(dir, cfg.Store.YAMLFile)
			}

			got, err := Open(context.Background(), &cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer got.Close()
			assert.IsType(t, tt.want, got)
		})
	}
}
