package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

//go:embed migrations
var migrationsFS embed.FS

// RunMigrations applies every embedded migration for the active driver that
// has not been recorded in schema_migrations yet, each in its own transaction.
func (db *DB) RunMigrations(ctx context.Context) error {
	logger := slog.With("component", "migrations", "driver", db.driver)
	logger.Info("Starting database migrations")

	if err := db.createMigrationsTable(ctx); err != nil {
		logger.Error("Failed to create migrations table", "error", err)
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := db.getMigrationFiles()
	if err != nil {
		logger.Error("Failed to get migration files", "error", err)
		return fmt.Errorf("failed to get migration files: %w", err)
	}

	logger.Info("Found migration files", "count", len(migrations))

	for _, migration := range migrations {
		if err := db.runMigration(ctx, migration); err != nil {
			logger.Error("Failed to run migration", "migration", migration, "error", err)
			return fmt.Errorf("failed to run migration %s: %w", migration, err)
		}
	}

	logger.Info("All migrations completed successfully")
	return nil
}

func (db *DB) createMigrationsTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	_, err := db.DB.ExecContext(ctx, query)
	return err
}

func (db *DB) getMigrationFiles() ([]string, error) {
	dir := path.Join("migrations", db.driver)

	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, err
	}

	var migrations []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			migrations = append(migrations, path.Join(dir, entry.Name()))
		}
	}

	sort.Strings(migrations)
	return migrations, nil
}

func (db *DB) runMigration(ctx context.Context, migrationFile string) error {
	migrationName := path.Base(migrationFile)
	logger := slog.With(
		"component", "migrations",
		"operation", "run_migration",
		"migration", migrationName,
	)

	var exists bool
	err := db.Get(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)", migrationName)
	if err != nil {
		logger.Error("Failed to check migration status", "error", err)
		return err
	}

	if exists {
		logger.Debug("Migration already applied, skipping")
		return nil
	}

	content, err := fs.ReadFile(migrationsFS, migrationFile)
	if err != nil {
		logger.Error("Failed to read migration file", "error", err)
		return err
	}

	logger.Info("Running migration", "size_bytes", len(content))

	return db.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := db.Executor(ctx).ExecContext(ctx, string(content)); err != nil {
			logger.Error("Failed to execute migration SQL", "error", err)
			return err
		}

		if _, err := db.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", migrationName); err != nil {
			logger.Error("Failed to record migration", "error", err)
			return err
		}

		logger.Info("Migration applied")
		return nil
	})
}
