package battle

import (
	"context"
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

const recordColumns = `id, attacker_id, defender_id, attack_power, defense_power, outcome,
	loss_fraction, steal_fraction, troops_used, attacker_losses, defender_losses, resources_stolen, created_at`

func (r *Repository) InsertRecord(ctx context.Context, rec Record) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO battle_records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.AttackerID, rec.DefenderID, rec.AttackPower, rec.DefensePower, rec.Outcome,
		rec.LossFraction, rec.StealFraction, rec.TroopsUsed, rec.AttackerLosses, rec.DefenderLosses,
		rec.ResourcesStolen, rec.CreatedAt)
	if err != nil {
		slog.Error("Failed to insert battle record", "component", "battle_repository", "battle_id", rec.ID, "error", err)
		return errors.WrapStore("failed to insert battle record", err)
	}
	return nil
}

// ListRecords returns battles the player fought on either side, newest
// first.
func (r *Repository) ListRecords(ctx context.Context, playerID string, limit int) ([]Record, error) {
	var records []Record
	err := r.db.Select(ctx, &records, `
		SELECT `+recordColumns+`
		FROM battle_records
		WHERE attacker_id = ? OR defender_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?`, playerID, playerID, limit)
	if err != nil {
		slog.Error("Failed to list battle records", "component", "battle_repository", "player_id", playerID, "error", err)
		return nil, errors.WrapStore("failed to list battle records", err)
	}
	for i := range records {
		records[i].CreatedAt = records[i].CreatedAt.UTC()
	}
	return records, nil
}
