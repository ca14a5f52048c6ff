package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"village-server/internal/shared/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver(config.DriverSQLite, sqlx.QUESTION)
}

// DB is the durable store handle shared by every repository. Queries are
// written with ? placeholders and rebound for the active driver.
type DB struct {
	*sqlx.DB
	driver string
}

// Executor is satisfied by both the pool and a transaction.
type Executor interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func Connect(cfg config.DatabaseConfig) (*DB, error) {
	logger := slog.With("component", "database", "operation", "connect")
	logger.Debug("Initializing database connection")

	if cfg.Driver == config.DriverSQLite {
		logger.Info("Opening sqlite database", "path", cfg.Path)
	} else {
		logger.Info("Connecting to database",
			"host", cfg.Host,
			"port", cfg.Port,
			"user", cfg.User,
			"database", cfg.Name,
			"sslmode", cfg.SSLMode,
			"max_open_conns", cfg.MaxOpenConns,
			"max_idle_conns", cfg.MaxIdleConns,
		)
	}

	sqlDB, err := sqlx.Open(cfg.Driver, cfg.DataSourceName())
	if err != nil {
		logger.Error("Failed to open database connection", "error", err, "driver", cfg.Driver)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// One connection: sqlite serializes writers anyway, and an in-memory
		// database lives only as long as its connection.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	logger.Debug("Testing database connection with ping")
	if err := sqlDB.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err, "driver", cfg.Driver)
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Error("Failed to close database after ping failure", "close_error", closeErr, "ping_error", err)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established successfully", "driver", cfg.Driver)

	return &DB{DB: sqlDB, driver: cfg.Driver}, nil
}

func (db *DB) Driver() string {
	return db.driver
}

type txKey struct{}

// WithinTx runs fn inside a transaction carried by ctx. Repositories called
// with that ctx join the transaction; nested calls reuse the outer one.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			slog.Error("Failed to rollback transaction", "component", "database", "error", err)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Executor returns the transaction carried by ctx, or the pool.
func (db *DB) Executor(ctx context.Context) Executor {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db.DB
}

func (db *DB) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return db.Executor(ctx).GetContext(ctx, dest, db.Rebind(query), args...)
}

func (db *DB) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return db.Executor(ctx).SelectContext(ctx, dest, db.Rebind(query), args...)
}

// Exec runs a statement and returns the number of affected rows.
func (db *DB) Exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	result, err := db.Executor(ctx).ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
