// Package village holds the building instances of each player and the
// rules derived from them: grid occupancy, building caps, the town hall
// and population capacity.
package village

import (
	"time"
)

type Building struct {
	ID        string    `json:"id" db:"id"`
	PlayerID  string    `json:"player_id" db:"player_id"`
	TypeID    string    `json:"building_type" db:"building_type"`
	Level     int       `json:"level" db:"level"`
	X         int       `json:"x" db:"x"`
	Y         int       `json:"y" db:"y"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (b Building) Position() Position {
	return Position{X: b.X, Y: b.Y}
}
