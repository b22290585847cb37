package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"healthscore/internal/config"
)

// setupLogging returns the process logger. The TUI owns the terminal, so in
// that mode records go only to <home>/healthscore.log.
func setupLogging(toFile bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if os.Getenv("HEALTHSCORE_DEBUG") != "" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if !toFile {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), func() {}, nil
	}

	dir, err := config.GetConfigDir()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "healthscore.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	return slog.New(slog.NewTextHandler(f, opts)), func() { f.Close() }, nil
}
