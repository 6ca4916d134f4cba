package main

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger writes JSON records to a rotating file when one is configured,
// otherwise to fallback.
func newLogger(cfg logConfig, fallback io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.File == "" {
		return slog.New(slog.NewJSONHandler(fallback, opts)), nopCloser{}, nil
	}
	writer := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return slog.New(slog.NewJSONHandler(writer, opts)), writer, nil
}
