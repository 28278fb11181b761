package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/schedule"
	"github.com/at-ishikawa/recall/internal/scheduler"
)

func TestSetupTestConfig(t *testing.T) {
	t.Setenv("RECALL_SERVER_URL", "")
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir)

	want := filepath.Join(tmpDir, "config.yml")
	assert.Equal(t, want, got)

	for _, d := range []string{"data", "reports"} {
		info, err := os.Stat(filepath.Join(tmpDir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	loader, err := config.NewConfigLoader(got)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoreDriverYAML, cfg.Store.Driver)
	assert.Equal(t, YAMLStorePath(tmpDir), cfg.Store.YAMLFile)
	assert.Equal(t, time.Millisecond, cfg.Review.RetryDelay)
	assert.Empty(t, cfg.Remote.URL)
}

func TestSetupTestConfigWithRemote(t *testing.T) {
	t.Setenv("RECALL_SERVER_URL", "")
	tmpDir := t.TempDir()
	got := SetupTestConfigWithRemote(t, tmpDir, "http://localhost:8080")

	loader, err := config.NewConfigLoader(got)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.Remote.URL)
	assert.Equal(t, 5*time.Second, cfg.Remote.Timeout)
}

func TestCreateScheduledItems(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		opts []ItemOption
		want scheduler.ScheduledItem
	}{
		{
			name: "defaults",
			want: scheduler.ScheduledItem{
				ItemID:             "card-1",
				NextReviewAt:       now,
				ReviewCount:        1,
				IntervalMultiplier: 1.0,
				Difficulty:         scheduler.Good,
			},
		},
		{
			name: "with options",
			opts: []ItemOption{WithReviewCount(4), WithDifficulty(scheduler.Hard)},
			want: scheduler.ScheduledItem{
				ItemID:             "card-1",
				NextReviewAt:       now,
				ReviewCount:        4,
				IntervalMultiplier: 1.0,
				Difficulty:         scheduler.Hard,
			},
		},
		{
			name: "graduated",
			opts: []ItemOption{WithReviewCount(2), Graduated()},
			want: scheduler.ScheduledItem{
				ItemID:                "card-1",
				NextReviewAt:          scheduler.Never,
				ReviewCount:           2,
				LastAttemptSuccessful: true,
				IntervalMultiplier:    1.0,
				Difficulty:            scheduler.Easy,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			SetupTestConfig(t, tmpDir)
			CreateScheduledItems(t, tmpDir, map[string]time.Time{"card-1": now}, tt.opts...)

			got, err := schedule.NewYAMLStore(YAMLStorePath(tmpDir)).Find(context.Background(), "card-1")
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want.ItemID, got.ItemID)
			assert.True(t, tt.want.NextReviewAt.Equal(got.NextReviewAt))
			assert.Equal(t, tt.want.ReviewCount, got.ReviewCount)
			assert.Equal(t, tt.want.LastAttemptSuccessful, got.LastAttemptSuccessful)
			assert.Equal(t, tt.want.IntervalMultiplier, got.IntervalMultiplier)
			assert.Equal(t, tt.want.Difficulty, got.Difficulty)
		})
	}
}
