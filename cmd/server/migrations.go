package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
)

// migrationCommands are the goose commands accepted by --migrate, apart
// from create which needs no database.
var migrationCommands = map[string]bool{
	"up":      true,
	"down":    true,
	"status":  true,
	"version": true,
	"reset":   true,
	"redo":    true,
}

// handleMigrations runs a migration command against db and logs how long
// it took under a correlation ID.
func handleMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	if !migrationCommands[command] {
		return fmt.Errorf("unknown migration command %q", command)
	}

	migrationLogger := logger.With(
		"correlation_id", uuid.NewString(),
		"component", "migrations",
		"command", command,
	)

	start := time.Now()
	migrationLogger.Info("Starting migration operation")

	err := postgres.Migrate(ctx, db, command, migrationLogger)

	migrationLogger.Info("Migration operation completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"success", err == nil)
	return err
}
