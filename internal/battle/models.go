package battle

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"village-server/internal/resource"
)

// TroopCounts is stored as a JSON column.
type TroopCounts map[string]int64

func (t TroopCounts) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]int64(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *TroopCounts) Scan(src any) error {
	return scanJSON(src, t)
}

// Loot is stored as a JSON column.
type Loot resource.Amounts

func (l Loot) Value() (driver.Value, error) {
	b, err := json.Marshal(resource.Amounts(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *Loot) Scan(src any) error {
	return scanJSON(src, l)
}

func scanJSON(src any, dest any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	case nil:
		return nil
	default:
		return fmt.Errorf("cannot scan %T into JSON column", src)
	}
}

// Record is written once per battle and never changed.
type Record struct {
	ID              string      `json:"id" db:"id"`
	AttackerID      string      `json:"attacker_id" db:"attacker_id"`
	DefenderID      string      `json:"defender_id" db:"defender_id"`
	AttackPower     int64       `json:"attack_power" db:"attack_power"`
	DefensePower    int64       `json:"defense_power" db:"defense_power"`
	Outcome         Outcome     `json:"outcome" db:"outcome"`
	LossFraction    float64     `json:"loss_fraction" db:"loss_fraction"`
	StealFraction   float64     `json:"steal_fraction" db:"steal_fraction"`
	TroopsUsed      TroopCounts `json:"troops_used" db:"troops_used"`
	AttackerLosses  TroopCounts `json:"attacker_losses" db:"attacker_losses"`
	DefenderLosses  TroopCounts `json:"defender_losses" db:"defender_losses"`
	ResourcesStolen Loot        `json:"resources_stolen" db:"resources_stolen"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
}

// Report is what the attacker gets back. Warnings carries failures that did
// not undo the battle, such as a history write that could not be stored.
type Report struct {
	Record    Record            `json:"record"`
	Resources resource.Counters `json:"resources"`
	Warnings  []string          `json:"warnings,omitempty"`
}
