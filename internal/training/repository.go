package training

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
	return &Repository{db: db}
}

const entryColumns = `id, player_id, troop_type, building_id, quantity, started_at, ends_at, status, completed_at`

func (r *Repository) InsertEntry(ctx context.Context, e Entry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO training_queue (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.PlayerID, e.TroopType, e.BuildingID, e.Quantity, e.StartedAt, e.EndsAt, e.Status, e.CompletedAt)
	if err != nil {
		slog.Error("Failed to insert training entry", "component", "training_repository", "player_id", e.PlayerID, "error", err)
		return errors.WrapStore("failed to insert training entry", err)
	}
	return nil
}

func (r *Repository) GetEntry(ctx context.Context, playerID, entryID string) (Entry, error) {
	var e Entry
	err := r.db.Get(ctx, &e,
		`SELECT `+entryColumns+` FROM training_queue WHERE id = ? AND player_id = ?`, entryID, playerID)
	if err == sql.ErrNoRows {
		return Entry{}, errors.NotFoundf("training entry %s not found", entryID)
	}
	if err != nil {
		slog.Error("Failed to load training entry", "component", "training_repository", "player_id", playerID, "error", err)
		return Entry{}, errors.WrapStore("failed to load training entry", err)
	}
	normalize(&e)
	return e, nil
}

func (r *Repository) ListEntries(ctx context.Context, playerID string) ([]Entry, error) {
	var entries []Entry
	err := r.db.Select(ctx, &entries,
		`SELECT `+entryColumns+` FROM training_queue WHERE player_id = ? ORDER BY started_at, id`, playerID)
	if err != nil {
		slog.Error("Failed to list training entries", "component", "training_repository", "player_id", playerID, "error", err)
		return nil, errors.WrapStore("failed to list training entries", err)
	}
	for i := range entries {
		normalize(&entries[i])
	}
	return entries, nil
}

// MarkCompleted flips a training entry to completed. It reports false when
// the entry was not in training anymore.
func (r *Repository) MarkCompleted(ctx context.Context, playerID, entryID string, completedAt time.Time) (bool, error) {
	n, err := r.db.Exec(ctx, `
		UPDATE training_queue SET status = ?, completed_at = ?
		WHERE id = ? AND player_id = ? AND status = ?`,
		StatusCompleted, completedAt, entryID, playerID, StatusTraining)
	if err != nil {
		slog.Error("Failed to complete training entry", "component", "training_repository", "player_id", playerID, "error", err)
		return false, errors.WrapStore("failed to complete training entry", err)
	}
	return n == 1, nil
}

func normalize(e *Entry) {
	e.StartedAt = e.StartedAt.UTC()
	e.EndsAt = e.EndsAt.UTC()
	if e.CompletedAt != nil {
		t := e.CompletedAt.UTC()
		e.CompletedAt = &t
	}
}
