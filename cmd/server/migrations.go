package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stockpile/stockpile-api/internal/config"
	"github.com/stockpile/stockpile-api/internal/platform/postgres"
)

// handleMigrations runs a single goose command against the configured
// PostgreSQL database. Other drivers have no schema to migrate.
func handleMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations require the %q driver, configured driver is %q",
			config.DriverPostgres, cfg.Database.Driver)
	}

	db, err := postgres.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("Error closing database connection", "error", closeErr)
		}
	}()

	return postgres.Migrate(ctx, db, command, logger)
}
