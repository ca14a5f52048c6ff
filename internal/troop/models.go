// Package troop tracks the troops each player owns and how many of them are
// assigned to defend which buildings.
package troop

// Inventory maps troop type id to owned quantity. Types with no troops are
// absent.
type Inventory map[string]int64

type Stack struct {
	TroopType string `json:"troop_type" db:"troop_type"`
	Quantity  int64  `json:"quantity" db:"quantity"`
}

type Assignment struct {
	PlayerID   string `json:"player_id" db:"player_id"`
	BuildingID string `json:"building_id" db:"building_id"`
	TroopType  string `json:"troop_type" db:"troop_type"`
	Quantity   int64  `json:"quantity" db:"quantity"`
}

// AssignedByType sums assignments per troop type.
func AssignedByType(assignments []Assignment) map[string]int64 {
	out := make(map[string]int64)
	for _, a := range assignments {
		out[a.TroopType] += a.Quantity
	}
	return out
}
