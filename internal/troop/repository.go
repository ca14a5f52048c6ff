package troop

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

func (r *Repository) ListInventory(ctx context.Context, playerID string) ([]Stack, error) {
	var stacks []Stack
	err := r.db.Select(ctx, &stacks,
		`SELECT troop_type, quantity FROM troop_inventory WHERE player_id = ? ORDER BY troop_type`, playerID)
	if err != nil {
		slog.Error("Failed to list troop inventory", "component", "troop_repository", "player_id", playerID, "error", err)
		return nil, errors.WrapStore("failed to list troop inventory", err)
	}
	return stacks, nil
}

func (r *Repository) GetQuantity(ctx context.Context, playerID, troopType string) (int64, error) {
	var qty int64
	err := r.db.Get(ctx, &qty,
		`SELECT quantity FROM troop_inventory WHERE player_id = ? AND troop_type = ?`, playerID, troopType)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		slog.Error("Failed to load troop quantity", "component", "troop_repository", "player_id", playerID, "error", err)
		return 0, errors.WrapStore("failed to load troop quantity", err)
	}
	return qty, nil
}

// AddQuantity adds qty to the stack, creating it if needed.
func (r *Repository) AddQuantity(ctx context.Context, playerID, troopType string, qty int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO troop_inventory (player_id, troop_type, quantity)
		VALUES (?, ?, ?)
		ON CONFLICT (player_id, troop_type)
		DO UPDATE SET quantity = troop_inventory.quantity + excluded.quantity`,
		playerID, troopType, qty)
	if err != nil {
		slog.Error("Failed to add troops", "component", "troop_repository", "player_id", playerID, "error", err)
		return errors.WrapStore("failed to add troops", err)
	}
	return nil
}

// SetQuantity overwrites the stack; zero removes the row.
func (r *Repository) SetQuantity(ctx context.Context, playerID, troopType string, qty int64) error {
	var err error
	if qty <= 0 {
		_, err = r.db.Exec(ctx,
			`DELETE FROM troop_inventory WHERE player_id = ? AND troop_type = ?`, playerID, troopType)
	} else {
		_, err = r.db.Exec(ctx, `
			INSERT INTO troop_inventory (player_id, troop_type, quantity)
			VALUES (?, ?, ?)
			ON CONFLICT (player_id, troop_type)
			DO UPDATE SET quantity = excluded.quantity`,
			playerID, troopType, qty)
	}
	if err != nil {
		slog.Error("Failed to set troops", "component", "troop_repository", "player_id", playerID, "error", err)
		return errors.WrapStore("failed to set troops", err)
	}
	return nil
}

// DefenseAssignments reads any player's assignments. Battles use it to see
// the defender's garrison; it is the one read that crosses player scope.
func (r *Repository) DefenseAssignments(ctx context.Context, playerID string) ([]Assignment, error) {
	var assignments []Assignment
	err := r.db.Select(ctx, &assignments, `
		SELECT player_id, building_id, troop_type, quantity
		FROM defense_assignments
		WHERE player_id = ?
		ORDER BY building_id, troop_type`, playerID)
	if err != nil {
		slog.Error("Failed to list defense assignments", "component", "troop_repository", "player_id", playerID, "error", err)
		return nil, errors.WrapStore("failed to list defense assignments", err)
	}
	return assignments, nil
}

// SetAssignment overwrites one building's garrison of a troop type; zero
// removes it.
func (r *Repository) SetAssignment(ctx context.Context, a Assignment) error {
	var err error
	if a.Quantity <= 0 {
		_, err = r.db.Exec(ctx,
			`DELETE FROM defense_assignments WHERE building_id = ? AND troop_type = ? AND player_id = ?`,
			a.BuildingID, a.TroopType, a.PlayerID)
	} else {
		_, err = r.db.Exec(ctx, `
			INSERT INTO defense_assignments (player_id, building_id, troop_type, quantity)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (building_id, troop_type)
			DO UPDATE SET quantity = excluded.quantity`,
			a.PlayerID, a.BuildingID, a.TroopType, a.Quantity)
	}
	if err != nil {
		slog.Error("Failed to set defense assignment", "component", "troop_repository", "player_id", a.PlayerID, "error", err)
		return errors.WrapStore("failed to set defense assignment", err)
	}
	return nil
}
