package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/AlibekovAA/job-board/backend/internal/common/constants"
	"github.com/AlibekovAA/job-board/backend/internal/common/db/migrations"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
	"github.com/AlibekovAA/job-board/backend/internal/observability/metrics"
)

// Migrate applies the embedded goose migrations over a short-lived
// database/sql handle; the application itself talks to pgxpool.
func Migrate(ctx context.Context, log *logger.Logger, databaseURL string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBMigrationTimeout)
	defer cancel()

	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	metrics.DBMigrationVersion.Set(float64(version))
	log.Infof("database schema at version %d", version)
	return nil
}
