package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recall/internal/testutil"
)

func TestExportImportCommands(t *testing.T) {
	sourceCfg := testutil.SetupTestConfig(t, t.TempDir())
	for _, args := range [][]string{
		{"review", "card-1", "--difficulty", "good"},
		{"review", "card-1", "--difficulty", "hard", "--success"},
		{"review", "card-2", "--difficulty", "again"},
	} {
		_, err := execute(t, append([]string{"--config", sourceCfg}, args...)...)
		require.NoError(t, err)
	}

	exportPath := filepath.Join(t.TempDir(), "export.yml")
	got, err := execute(t, "--config", sourceCfg, "export", exportPath)
	require.NoError(t, err)
	assert.Contains(t, got, "Items:  2 new, 0 skipped, 0 updated")
	assert.Contains(t, got, "Logs:   3 new, 0 skipped")

	targetCfg := testutil.SetupTestConfig(t, t.TempDir())

	got, err = execute(t, "--config", targetCfg, "import", exportPath, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, got, "dry-run mode")
	_, err = execute(t, "--config", targetCfg, "show", "card-1")
	require.Error(t, err)

	got, err = execute(t, "--config", targetCfg, "import", exportPath)
	require.NoError(t, err)
	assert.Contains(t, got, "[NEW]  card-1 (review count 2)")
	assert.Contains(t, got, "Logs:   3 new, 0 skipped")

	got, err = execute(t, "--config", targetCfg, "audit")
	require.NoError(t, err)
	assert.Contains(t, got, "Every schedule matches its review history.")

	got, err = execute(t, "--config", targetCfg, "import", exportPath)
	require.NoError(t, err)
	assert.Contains(t, got, "Items:  0 new, 2 skipped, 0 updated")
}
