package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"hxanywhere/config"
	"hxanywhere/platform"
)

func main() {
	// Setup logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	configPath, _ := config.ConfigPath()
	slog.Info("Configuration loaded", "path", configPath)

	// Only one instance may own the hotkey and the menu bar item
	configDir, err := config.ConfigDir()
	if err != nil {
		slog.Error("Failed to resolve config directory", "error", err)
		os.Exit(1)
	}
	lock, err := platform.AcquireLock(configDir)
	if err != nil {
		slog.Error("Failed to acquire instance lock", "error", err)
		os.Exit(1)
	}
	defer lock.Release()

	// Create agent
	agent, err := NewAgent(cfg)
	if err != nil {
		slog.Error("Failed to create agent", "error", err)
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run agent
	if err := agent.Run(ctx); err != nil {
		slog.Error("Agent error", "error", err)
		os.Exit(1)
	}

	slog.Info("hxanywhere stopped")
}
