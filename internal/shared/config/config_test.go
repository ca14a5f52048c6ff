package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Game.LockTimeout)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiration)
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET must be at least 32 characters")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_DRIVER")
}

func TestDataSourceName(t *testing.T) {
	pg := DatabaseConfig{Driver: DriverPostgres, Host: "db", Port: "5432", User: "u", Password: "p", Name: "village", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=village sslmode=disable", pg.DataSourceName())

	mem := DatabaseConfig{Driver: DriverSQLite, Path: ":memory:"}
	assert.Equal(t, "file::memory:?_pragma=foreign_keys(1)", mem.DataSourceName())

	file := DatabaseConfig{Driver: DriverSQLite, Path: "data/village.db"}
	assert.Contains(t, file.DataSourceName(), "file:data/village.db?")
}
