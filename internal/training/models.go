// Package training queues troop training and turns finished entries into
// troops when the owner resolves them.
package training

import (
	"time"
)

type Status string

const (
	StatusTraining  Status = "training"
	StatusCompleted Status = "completed"
)

type Entry struct {
	ID          string     `json:"id" db:"id"`
	PlayerID    string     `json:"player_id" db:"player_id"`
	TroopType   string     `json:"troop_type" db:"troop_type"`
	BuildingID  string     `json:"building_id" db:"building_id"`
	Quantity    int64      `json:"quantity" db:"quantity"`
	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	EndsAt      time.Time  `json:"ends_at" db:"ends_at"`
	Status      Status     `json:"status" db:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// Due reports whether a training entry may be resolved at now.
func (e Entry) Due(now time.Time) bool {
	return e.Status == StatusTraining && !now.Before(e.EndsAt)
}
