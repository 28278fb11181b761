package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recall/internal/server"
	"github.com/at-ishikawa/recall/internal/testutil"
)

func TestNewServer(t *testing.T) {
	cfgPath := testutil.SetupTestConfig(t, t.TempDir())
	oldConfigFile := configFile
	configFile = cfgPath
	t.Cleanup(func() { configFile = oldConfigFile })

	cfg, err := loadConfig()
	require.NoError(t, err)

	srv, backend, err := newServer(t.Context(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = backend.Close()
	})
	assert.Equal(t, ":8080", srv.Addr)

	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	t.Run("review", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, ts.URL+server.ReviewProcedure,
			bytes.NewBufferString(`{"item_id":"card-1","difficulty":"good"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Origin", "http://localhost:3000")

		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		defer func() {
			_ = resp.Body.Close()
		}()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))

		var got server.ReviewResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "card-1", got.Item.ItemID)
		assert.Equal(t, 1, got.Item.ReviewCount)
		assert.True(t, got.Created)

		item, err := backend.Find(t.Context(), "card-1")
		require.NoError(t, err)
		require.NotNil(t, item)
	})

	t.Run("preflight", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, ts.URL+server.ReviewProcedure, nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://localhost:3000")

		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestNewServer_UnknownDriver(t *testing.T) {
	cfgPath := testutil.SetupTestConfig(t, t.TempDir())
	oldConfigFile := configFile
	configFile = cfgPath
	t.Cleanup(func() { configFile = oldConfigFile })

	cfg, err := loadConfig()
	require.NoError(t, err)
	cfg.Store.Driver = "cassandra"

	_, _, err = newServer(t.Context(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown store driver "cassandra"`)
}
