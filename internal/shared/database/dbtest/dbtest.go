// Package dbtest opens a migrated in-memory sqlite database for tests.
package dbtest

import (
	"context"
	"testing"

	"village-server/internal/shared/config"
	"village-server/internal/shared/database"
)

func New(t testing.TB) *database.DB {
	t.Helper()

	db, err := database.Connect(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.RunMigrations(context.Background()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return db
}

// SeedPlayer inserts a bare player row so foreign keys resolve.
func SeedPlayer(t testing.TB, db *database.DB, playerID string) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"INSERT INTO players (id, username, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)", playerID, playerID)
	if err != nil {
		t.Fatalf("seed player %s: %v", playerID, err)
	}
}
