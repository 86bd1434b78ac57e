package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/platform/postgres"
)

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf does not exit; the error propagates back to main, which handles
// application exit consistently.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// runMigrations executes the embedded database migrations with goose.
func runMigrations(cfg *config.Config, command string) error {
	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(postgres.MigrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
		}
	}()

	const dir = "migrations"
	switch command {
	case "up":
		return goose.Up(db, dir)
	case "down":
		return goose.Down(db, dir)
	case "status":
		return goose.Status(db, dir)
	default:
		return fmt.Errorf("unknown migration command %q (expected up, down, or status)", command)
	}
}
