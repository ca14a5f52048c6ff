package resource

import (
	"context"
	"database/sql"
	"log/slog"

	"village-server/internal/shared/database"
	"village-server/internal/shared/errors"
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

const countersColumns = `player_id, wood, stone, food, iron, gold, elixir, gems,
	population_used, population_cap, last_accrual_at, version, updated_at`

func (r *Repository) GetCounters(ctx context.Context, playerID string) (Counters, error) {
	logger := slog.With("component", "resource_repository", "operation", "get_counters", "player_id", playerID)

	var c Counters
	err := r.db.Get(ctx, &c, `SELECT `+countersColumns+` FROM resource_counters WHERE player_id = ?`, playerID)
	if err == sql.ErrNoRows {
		return Counters{}, errors.NotFoundf("resource counters for player %s not found", playerID)
	}
	if err != nil {
		logger.Error("Failed to load resource counters", "error", err)
		return Counters{}, errors.WrapStore("failed to load resource counters", err)
	}

	c.LastAccrualAt = c.LastAccrualAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

// InsertCounters creates the row unless one already exists. It reports
// whether this call created it.
func (r *Repository) InsertCounters(ctx context.Context, c Counters) (bool, error) {
	logger := slog.With("component", "resource_repository", "operation", "insert_counters", "player_id", c.PlayerID)

	n, err := r.db.Exec(ctx, `
		INSERT INTO resource_counters (`+countersColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (player_id) DO NOTHING`,
		c.PlayerID, c.Wood, c.Stone, c.Food, c.Iron, c.Gold, c.Elixir, c.Gems,
		c.PopulationUsed, c.PopulationCap, c.LastAccrualAt, c.Version, c.UpdatedAt)
	if err != nil {
		logger.Error("Failed to insert resource counters", "error", err)
		return false, errors.WrapStore("failed to insert resource counters", err)
	}
	return n == 1, nil
}

// UpdateCounters writes c only if the stored version still equals
// expectedVersion. It reports whether the row was written.
func (r *Repository) UpdateCounters(ctx context.Context, c Counters, expectedVersion int64) (bool, error) {
	logger := slog.With("component", "resource_repository", "operation", "update_counters", "player_id", c.PlayerID)

	n, err := r.db.Exec(ctx, `
		UPDATE resource_counters
		SET wood = ?, stone = ?, food = ?, iron = ?, gold = ?, elixir = ?, gems = ?,
			population_used = ?, population_cap = ?, last_accrual_at = ?, version = ?, updated_at = ?
		WHERE player_id = ? AND version = ?`,
		c.Wood, c.Stone, c.Food, c.Iron, c.Gold, c.Elixir, c.Gems,
		c.PopulationUsed, c.PopulationCap, c.LastAccrualAt, c.Version, c.UpdatedAt,
		c.PlayerID, expectedVersion)
	if err != nil {
		logger.Error("Failed to update resource counters", "error", err)
		return false, errors.WrapStore("failed to update resource counters", err)
	}
	return n == 1, nil
}
