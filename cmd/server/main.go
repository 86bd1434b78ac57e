// Package main implements the entry point for the TaskNest API server,
// which manages users' tasks, task sharing, and real-time update
// notifications over WebSocket connections.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run database migrations (up, down, status) instead of serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Server)
	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	if *migrateCmd != "" {
		if err := runMigrations(cfg, *migrateCmd); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		return
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// run wires the application together and serves until shutdown.
func run(ctx context.Context, cfg *config.Config) error {
	db, err := setupAppDatabase(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	app, err := newApplication(ctx, cfg, slog.Default(), db)
	if err != nil {
		// The application owns db cleanup only once constructed.
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("Error closing database connection", "error", closeErr)
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
