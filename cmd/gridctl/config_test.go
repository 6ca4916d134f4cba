package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-dashboard-grid/components/grid"
)

func TestLoadServeConfigDefaults(t *testing.T) {
	cfg, err := loadServeConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":9876", cfg.Address)
	assert.Equal(t, grid.DefaultRows, cfg.Grid.Rows)
	assert.Equal(t, 30*time.Second, cfg.PreviewCacheTTL)
	require.Len(t, cfg.Canvases, 1)
	assert.True(t, cfg.Canvases[0].Seed)
}

func TestLoadServeConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridctl.yaml")
	body := `
address: ":8080"
grid:
  rows: 4
  cols: 8
preview_cache_ttl: 5s
canvases:
  - id: ops
  - id: sales
    rows: 3
    cols: 6
    seed: true
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := loadServeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, "/dashboard", cfg.BasePath)
	assert.Equal(t, gridConfig{Rows: 4, Cols: 8}, cfg.Grid)
	assert.Equal(t, 5*time.Second, cfg.PreviewCacheTTL)
	require.Len(t, cfg.Canvases, 2)
	assert.Equal(t, "sales", cfg.Canvases[1].ID)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestDecodeServeConfigRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown field": "adress: \":80\"\n",
		"bad grid":      "grid:\n  rows: 0\n  cols: 6\n",
		"duplicate":     "canvases:\n  - id: a\n  - id: a\n",
		"missing id":    "canvases:\n  - rows: 2\n",
		"bad level":     "log:\n  level: loud\n",
		"negative ttl":  "preview_cache_ttl: -1s\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultServeConfig()
			assert.Error(t, decodeServeConfig(strings.NewReader(body), &cfg))
		})
	}
}

func TestNewLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := newLogger(logConfig{Level: "warn"}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("shown", slog.String("canvas_id", "home"))
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"canvas_id":"home"`)
}

func TestNewLoggerRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridctl.log")
	logger, closer, err := newLogger(logConfig{File: path, Level: "info", MaxSizeMB: 1}, nil)
	require.NoError(t, err)
	logger.Info("canvas ready")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "canvas ready")
}

func TestBuildServiceCreatesConfiguredCanvases(t *testing.T) {
	cfg := defaultServeConfig()
	cfg.Canvases = []canvasConfig{{ID: "home", Seed: true}, {ID: "blank", Rows: 2, Cols: 3}}
	cfg.Manifests = []string{filepath.Join("..", "..", "docs", "manifests", "reports.yaml")}
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	service, hook, telemetry, err := buildService(context.Background(), cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, hook)
	require.NotNil(t, telemetry)

	home, err := service.Layout(context.Background(), "home")
	require.NoError(t, err)
	assert.Equal(t, 5, home.Len())

	blank, err := service.Layout(context.Background(), "blank")
	require.NoError(t, err)
	assert.Equal(t, grid.Grid{Rows: 2, Cols: 3}, blank.Grid)

	_, ok := service.Catalog().Definition("reports.widget.pivot")
	assert.True(t, ok)
	assert.Contains(t, buf.String(), "dashboard.layout.place")
	assert.Contains(t, buf.String(), `"msg":"activity","verb":"place"`)
}
