package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"calendo/internal/config"
	"calendo/internal/planner"
	"calendo/internal/storage"
	"calendo/internal/ui"
)

func main() {
	configPath := config.ResolveConfigPath()
	firstLaunch := false
	if _, err := os.Stat(configPath); err != nil {
		firstLaunch = errors.Is(err, os.ErrNotExist)
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	initLogger(cfg.LogFile)

	store, err := storage.Open(cfg.TasksPath(), cfg.CompletedPath())
	if err != nil {
		fmt.Printf("failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	pl := planner.New(store, planner.RealClock{})

	slog.Info("starting", "config", configPath, "data_dir", cfg.DataDir)
	if err := ui.Run(pl, cfg, firstLaunch); err != nil {
		slog.Error("exiting on error", "error", err)
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}

// initLogger sends slog output to the configured file. The terminal
// belongs to the TUI, so without a log file everything is discarded.
func initLogger(path string) {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Printf("warning: failed to open log file: %v\n", err)
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, nil)))
}
