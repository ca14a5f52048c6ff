package village

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

const buildingColumns = `id, player_id, building_type, level, x, y, created_at, updated_at`

func (r *Repository) ListBuildings(ctx context.Context, playerID string) ([]Building, error) {
	logger := slog.With("component", "village_repository", "operation", "list_buildings", "player_id", playerID)

	var buildings []Building
	err := r.db.Select(ctx, &buildings,
		`SELECT `+buildingColumns+` FROM buildings WHERE player_id = ? ORDER BY created_at, id`, playerID)
	if err != nil {
		logger.Error("Failed to list buildings", "error", err)
		return nil, errors.WrapStore("failed to list buildings", err)
	}

	for i := range buildings {
		normalize(&buildings[i])
	}
	return buildings, nil
}

// GetBuilding only finds buildings owned by playerID.
func (r *Repository) GetBuilding(ctx context.Context, playerID, buildingID string) (Building, error) {
	logger := slog.With("component", "village_repository", "operation", "get_building",
		"player_id", playerID, "building_id", buildingID)

	var b Building
	err := r.db.Get(ctx, &b,
		`SELECT `+buildingColumns+` FROM buildings WHERE id = ? AND player_id = ?`, buildingID, playerID)
	if err == sql.ErrNoRows {
		return Building{}, errors.NotFoundf("building %s not found", buildingID)
	}
	if err != nil {
		logger.Error("Failed to load building", "error", err)
		return Building{}, errors.WrapStore("failed to load building", err)
	}

	normalize(&b)
	return b, nil
}

func (r *Repository) InsertBuilding(ctx context.Context, b Building) error {
	logger := slog.With("component", "village_repository", "operation", "insert_building",
		"player_id", b.PlayerID, "building_type", b.TypeID)

	_, err := r.db.Exec(ctx, `
		INSERT INTO buildings (`+buildingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.PlayerID, b.TypeID, b.Level, b.X, b.Y, b.CreatedAt, b.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return errors.Newf(errors.ErrorTypePositionOccupied, "position (%d,%d) is occupied", b.X, b.Y)
	}
	if err != nil {
		logger.Error("Failed to insert building", "error", err)
		return errors.WrapStore("failed to insert building", err)
	}

	logger.Debug("Building inserted", "building_id", b.ID, "x", b.X, "y", b.Y)
	return nil
}

// UpdateLevel moves a building from one level to the next only if it is
// still at fromLevel. It reports whether the row changed.
func (r *Repository) UpdateLevel(ctx context.Context, b Building, fromLevel int) (bool, error) {
	logger := slog.With("component", "village_repository", "operation", "update_level",
		"player_id", b.PlayerID, "building_id", b.ID)

	n, err := r.db.Exec(ctx, `
		UPDATE buildings SET level = ?, updated_at = ?
		WHERE id = ? AND player_id = ? AND level = ?`,
		b.Level, b.UpdatedAt, b.ID, b.PlayerID, fromLevel)
	if err != nil {
		logger.Error("Failed to update building level", "error", err)
		return false, errors.WrapStore("failed to update building level", err)
	}
	return n == 1, nil
}

func normalize(b *Building) {
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
}
