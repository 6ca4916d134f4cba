package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-dashboard-grid/components/grid"
)

type serveConfig struct {
	Address         string         `yaml:"address"`
	BasePath        string         `yaml:"base_path"`
	Grid            gridConfig     `yaml:"grid"`
	PreviewCacheTTL time.Duration  `yaml:"preview_cache_ttl"`
	Manifests       []string       `yaml:"manifests"`
	Canvases        []canvasConfig `yaml:"canvases"`
	Log             logConfig      `yaml:"log"`
}

type gridConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

type canvasConfig struct {
	ID   string `yaml:"id"`
	Rows int    `yaml:"rows"`
	Cols int    `yaml:"cols"`
	Seed bool   `yaml:"seed"`
}

type logConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

func defaultServeConfig() serveConfig {
	return serveConfig{
		Address:         ":9876",
		BasePath:        "/dashboard",
		Grid:            gridConfig{Rows: grid.DefaultRows, Cols: grid.DefaultCols},
		PreviewCacheTTL: 30 * time.Second,
		Canvases:        []canvasConfig{{ID: "home", Seed: true}},
		Log:             logConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 7},
	}
}

// loadServeConfig reads a YAML config over the defaults. An empty path keeps
// the defaults.
func loadServeConfig(path string) (serveConfig, error) {
	cfg := defaultServeConfig()
	if path == "" {
		return cfg, nil
	}
	file, err := os.Open(path) //nolint:gosec
	if err != nil {
		return cfg, fmt.Errorf("gridctl: open config %s: %w", path, err)
	}
	defer file.Close()
	if err := decodeServeConfig(file, &cfg); err != nil {
		return cfg, fmt.Errorf("gridctl: config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeServeConfig(r io.Reader, cfg *serveConfig) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return cfg.validate()
}

func (cfg serveConfig) validate() error {
	if err := (grid.Grid{Rows: cfg.Grid.Rows, Cols: cfg.Grid.Cols}).Validate(); err != nil {
		return err
	}
	if cfg.PreviewCacheTTL < 0 {
		return errors.New("preview_cache_ttl must not be negative")
	}
	seen := map[string]bool{}
	for _, canvas := range cfg.Canvases {
		id := strings.TrimSpace(canvas.ID)
		if id == "" {
			return errors.New("canvases need an id")
		}
		if seen[id] {
			return fmt.Errorf("canvas %s is declared twice", id)
		}
		seen[id] = true
	}
	if _, err := parseLevel(cfg.Log.Level); err != nil {
		return err
	}
	return nil
}

func parseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if value == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", value, err)
	}
	return level, nil
}
