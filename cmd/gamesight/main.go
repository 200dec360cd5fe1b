// gamesight watches the game client and reports stats, cooldowns, status
// conditions and action bar counts as they change
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/GriffinCanCode/gamesight/internal/config"
	"github.com/GriffinCanCode/gamesight/internal/recognition"
	"github.com/GriffinCanCode/gamesight/internal/screen"
	"github.com/GriffinCanCode/gamesight/internal/templates"
	"github.com/GriffinCanCode/gamesight/internal/watcher"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = config.DefaultEnvFile
	}
	if err := config.LoadEnvFile(envFile); err != nil {
		slog.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	cfg := config.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// A missing template directory leaves recognition degraded, not dead
	store := templates.NewStore()
	if err := store.Load(cfg.TemplatesDir); err != nil {
		slog.Error("template store unavailable, recognition degraded", "dir", cfg.TemplatesDir, "error", err)
	}

	engine, err := recognition.New(cfg, store)
	if err != nil {
		slog.Error("failed to create recognition engine", "error", err)
		os.Exit(1)
	}

	var source screen.Source
	if cfg.ReplayDir != "" {
		if source, err = screen.NewReplay(cfg.ReplayDir); err != nil {
			slog.Error("failed to open replay directory", "dir", cfg.ReplayDir, "error", err)
			os.Exit(1)
		}
	} else {
		source = screen.New()
	}
	defer source.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := watcher.New(cfg, source, engine)
	w.Start(ctx)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case e := <-w.Events():
				slog.Info("state changed", "kind", e.Kind, "name", e.Name, "value", e.Value, "found", e.Found)
			}
		}
	}()

	slog.Info("gamesight started",
		"templates", store.Len(),
		"backend", cfg.MatcherBackend,
		"replay", cfg.ReplayDir != "")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down...")
	cancel()
	w.Stop()
	slog.Info("shutdown complete")
}
