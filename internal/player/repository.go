package player

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"village-server/internal/shared/database"
	"village-server/internal/shared/errors"
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	logger := slog.With("component", "player_repository", "operation", "init")
	logger.Debug("Initializing player repository")
	return &Repository{db: db}
}

func (r *Repository) GetPlayerCount(ctx context.Context) (int, error) {
	logger := slog.With("component", "player_repository", "operation", "get_count")
	logger.Debug("Getting total player count")

	var count int
	if err := r.db.Get(ctx, &count, "SELECT COUNT(*) FROM players"); err != nil {
		logger.Error("Failed to get player count", "error", err)
		return 0, errors.WrapStore("failed to get player count", err)
	}

	logger.Debug("Player count retrieved", "count", count)
	return count, nil
}

// InsertPlayer creates the player unless the id is already taken. It
// reports whether a row was created.
func (r *Repository) InsertPlayer(ctx context.Context, id, username string, createdAt time.Time) (bool, error) {
	logger := slog.With(
		"component", "player_repository",
		"operation", "insert",
		"player_id", id,
	)

	n, err := r.db.Exec(ctx, `
		INSERT INTO players (id, username, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		id, username, createdAt)
	if err != nil {
		logger.Error("Failed to create player", "error", err)
		return false, errors.WrapStore("failed to create player", err)
	}

	if n == 1 {
		logger.Info("Player created", "username", username)
	}
	return n == 1, nil
}

func (r *Repository) GetPlayerByID(ctx context.Context, id string) (*Player, error) {
	logger := slog.With(
		"component", "player_repository",
		"operation", "get_by_id",
		"player_id", id,
	)
	logger.Debug("Getting player by ID")

	var player Player
	err := r.db.Get(ctx, &player, `SELECT id, username, created_at FROM players WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		logger.Debug("No player found with ID")
		return nil, errors.NotFoundf("player %s not found", id)
	}
	if err != nil {
		logger.Error("Database error getting player by ID", "error", err)
		return nil, errors.WrapStore("failed to load player", err)
	}

	player.CreatedAt = player.CreatedAt.UTC()
	return &player, nil
}
