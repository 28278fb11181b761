// Package testutil provides shared test helpers for creating config files and schedule fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recall/internal/schedule"
	"github.com/at-ishikawa/recall/internal/scheduler"
)

// SetupTestConfig creates a config file backed by a YAML store under tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"data", "reports"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`store:
  driver: yaml
  yaml_file: %s
review:
  max_retry_attempts: 3
  retry_delay: 1ms
report:
  output_directory: %s
`,
		YAMLStorePath(tmpDir),
		filepath.Join(tmpDir, "reports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithRemote creates a config file that points the CLI at a recall server.
func SetupTestConfigWithRemote(t *testing.T, tmpDir string, url string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte(fmt.Sprintf("remote:\n  url: %s\n  timeout: 5s\n", url))...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// YAMLStorePath returns the schedule file used by SetupTestConfig.
func YAMLStorePath(tmpDir string) string {
	return filepath.Join(tmpDir, "data", "schedule.yml")
}

// ItemOption configures optional fields when creating a schedule fixture.
type ItemOption func(*scheduler.ScheduledItem)

// WithReviewCount sets the review count of the fixture.
func WithReviewCount(count int) ItemOption {
	return func(item *scheduler.ScheduledItem) {
		item.ReviewCount = count
	}
}

// WithDifficulty sets the last difficulty of the fixture.
func WithDifficulty(difficulty scheduler.Difficulty) ItemOption {
	return func(item *scheduler.ScheduledItem) {
		item.Difficulty = difficulty
	}
}

// Graduated marks the fixture as never due again.
func Graduated() ItemOption {
	return func(item *scheduler.ScheduledItem) {
		item.NextReviewAt = scheduler.Never
		item.LastAttemptSuccessful = true
		item.Difficulty = scheduler.Easy
	}
}

// CreateScheduledItems saves items due at the given times into the YAML store of SetupTestConfig.
// By default each item has one review with Good difficulty. Use ItemOption to override.
func CreateScheduledItems(t *testing.T, tmpDir string, due map[string]time.Time, opts ...ItemOption) {
	t.Helper()

	store := schedule.NewYAMLStore(YAMLStorePath(tmpDir))
	for id, nextReviewAt := range due {
		item := scheduler.ScheduledItem{
			ItemID:             id,
			NextReviewAt:       nextReviewAt,
			ReviewCount:        1,
			IntervalMultiplier: 1.0,
			Difficulty:         scheduler.Good,
		}
		for _, opt := range opts {
			opt(&item)
		}
		// Stores only accept successors, so walk the review count up from one.
		for count := 1; count <= item.ReviewCount; count++ {
			step := item
			step.ReviewCount = count
			require.NoError(t, store.Save(context.Background(), step))
		}
	}
}
