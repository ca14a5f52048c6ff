// Package resource holds the resource counters of a player and the pure
// arithmetic over them: accrual from elapsed time and clamped adjustment.
package resource

import (
	"time"
)

type Kind string

const (
	Wood   Kind = "wood"
	Stone  Kind = "stone"
	Food   Kind = "food"
	Iron   Kind = "iron"
	Gold   Kind = "gold"
	Elixir Kind = "elixir"
	Gems   Kind = "gems"
)

// Kinds lists every resource kind in display order.
var Kinds = []Kind{Wood, Stone, Food, Iron, Gold, Elixir, Gems}

// PillageKinds are the kinds an attacker can steal.
var PillageKinds = []Kind{Wood, Stone, Iron, Food}

func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Amounts is a signed quantity per resource kind. It is used both for
// balances and for costs or deltas.
type Amounts struct {
	Wood   int64 `json:"wood" yaml:"wood" db:"wood"`
	Stone  int64 `json:"stone" yaml:"stone" db:"stone"`
	Food   int64 `json:"food" yaml:"food" db:"food"`
	Iron   int64 `json:"iron" yaml:"iron" db:"iron"`
	Gold   int64 `json:"gold" yaml:"gold" db:"gold"`
	Elixir int64 `json:"elixir" yaml:"elixir" db:"elixir"`
	Gems   int64 `json:"gems" yaml:"gems" db:"gems"`
}

func (a Amounts) Get(k Kind) int64 {
	switch k {
	case Wood:
		return a.Wood
	case Stone:
		return a.Stone
	case Food:
		return a.Food
	case Iron:
		return a.Iron
	case Gold:
		return a.Gold
	case Elixir:
		return a.Elixir
	case Gems:
		return a.Gems
	}
	return 0
}

func (a *Amounts) Set(k Kind, v int64) {
	switch k {
	case Wood:
		a.Wood = v
	case Stone:
		a.Stone = v
	case Food:
		a.Food = v
	case Iron:
		a.Iron = v
	case Gold:
		a.Gold = v
	case Elixir:
		a.Elixir = v
	case Gems:
		a.Gems = v
	}
}

func (a Amounts) Add(b Amounts) Amounts {
	var out Amounts
	for _, k := range Kinds {
		out.Set(k, a.Get(k)+b.Get(k))
	}
	return out
}

func (a Amounts) Sub(b Amounts) Amounts {
	return a.Add(b.Neg())
}

func (a Amounts) Neg() Amounts {
	return a.Scale(-1)
}

func (a Amounts) Scale(n int64) Amounts {
	var out Amounts
	for _, k := range Kinds {
		out.Set(k, a.Get(k)*n)
	}
	return out
}

func (a Amounts) IsZero() bool {
	return a == Amounts{}
}

// Map returns the non-zero kinds only.
func (a Amounts) Map() map[Kind]int64 {
	out := make(map[Kind]int64)
	for _, k := range Kinds {
		if v := a.Get(k); v != 0 {
			out[k] = v
		}
	}
	return out
}

// Counters is the persisted resource state of one player.
type Counters struct {
	PlayerID string `json:"player_id" db:"player_id"`
	Amounts
	PopulationUsed int64     `json:"population_used" db:"population_used"`
	PopulationCap  int64     `json:"population_cap" db:"population_cap"`
	LastAccrualAt  time.Time `json:"last_accrual_at" db:"last_accrual_at"`
	// Version guards every write: an update only applies if the stored
	// version still matches the one that was read.
	Version   int64     `json:"-" db:"version"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PopulationFree is the remaining population headroom, never negative.
func (c Counters) PopulationFree() int64 {
	if c.PopulationUsed >= c.PopulationCap {
		return 0
	}
	return c.PopulationCap - c.PopulationUsed
}
