// Package battle resolves attacks between two villages and keeps the
// immutable record of each one.
package battle

import (
	"math/big"

	"village-server/internal/catalog"
	"village-server/internal/resource"
	"village-server/internal/troop"
	"village-server/internal/village"
)

type Outcome string

const (
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
)

// WallPowerPerLevel is the defense each wall level adds.
const WallPowerPerLevel = 10

var (
	minVictoryLoss = big.NewRat(1, 10)
	baseVictory    = big.NewRat(1, 2)
	minDefeatLoss  = big.NewRat(1, 2)
	baseDefeat     = big.NewRat(4, 5)
	baseSteal      = big.NewRat(1, 20)
	stealPerRatio  = big.NewRat(1, 10)
	one            = big.NewRat(1, 1)
)

// Resolution is the deterministic result of pitting attackPower against
// defensePower. Fractions are exact.
type Resolution struct {
	AttackPower   int64
	DefensePower  int64
	Outcome       Outcome
	LossFraction  *big.Rat
	StealFraction *big.Rat
}

func AttackPower(registry *catalog.Registry, troops map[string]int64) int64 {
	var power int64
	for troopType, qty := range troops {
		if tt, ok := registry.Troop(troopType); ok {
			power += qty * tt.Power
		}
	}
	return power
}

// DefensePower adds the garrison of every defensive building and the walls.
func DefensePower(registry *catalog.Registry, assignments []troop.Assignment, buildings []village.Building) int64 {
	var power int64
	for _, a := range assignments {
		if tt, ok := registry.Troop(a.TroopType); ok {
			power += a.Quantity * tt.Power
		}
	}
	for _, b := range buildings {
		if bt, ok := registry.Building(b.TypeID); ok && bt.Category == catalog.CategoryWall {
			power += int64(b.Level) * WallPowerPerLevel
		}
	}
	return power
}

// Resolve decides the outcome. The attacker wins ties. With ratio the power
// difference over total power, a victory costs max(1/10, 1/2 - ratio) of the
// attacking troops and steals 1/20 + ratio/10 of the defender's resources; a
// defeat costs min(1, max(1/2, 4/5 + ratio)) and steals nothing.
func Resolve(attackPower, defensePower int64) Resolution {
	r := Resolution{
		AttackPower:  attackPower,
		DefensePower: defensePower,
	}

	ratio := new(big.Rat)
	if total := attackPower + defensePower; total > 0 {
		diff := attackPower - defensePower
		if diff < 0 {
			diff = -diff
		}
		ratio.SetFrac64(diff, total)
	}

	if attackPower >= defensePower {
		r.Outcome = OutcomeVictory
		r.LossFraction = maxRat(minVictoryLoss, new(big.Rat).Sub(baseVictory, ratio))
		r.StealFraction = new(big.Rat).Add(baseSteal, new(big.Rat).Mul(ratio, stealPerRatio))
	} else {
		r.Outcome = OutcomeDefeat
		r.LossFraction = minRat(one, maxRat(minDefeatLoss, new(big.Rat).Add(baseDefeat, ratio)))
		r.StealFraction = new(big.Rat)
	}
	return r
}

// Losses floors quantity x LossFraction per troop type. Types that lose
// nothing are omitted.
func (r Resolution) Losses(troops map[string]int64) map[string]int64 {
	losses := make(map[string]int64)
	for troopType, qty := range troops {
		if n := floorMul(qty, r.LossFraction); n > 0 {
			losses[troopType] = n
		}
	}
	return losses
}

// Pillage floors amount x StealFraction for each stealable kind.
func (r Resolution) Pillage(defender resource.Amounts) resource.Amounts {
	var stolen resource.Amounts
	for _, k := range resource.PillageKinds {
		stolen.Set(k, floorMul(defender.Get(k), r.StealFraction))
	}
	return stolen
}

func floorMul(n int64, f *big.Rat) int64 {
	if n <= 0 || f.Sign() <= 0 {
		return 0
	}
	num := new(big.Int).Mul(big.NewInt(n), f.Num())
	return new(big.Int).Quo(num, f.Denom()).Int64()
}

func maxRat(a, b *big.Rat) *big.Rat {
	if a.Cmp(b) >= 0 {
		return new(big.Rat).Set(a)
	}
	return new(big.Rat).Set(b)
}

func minRat(a, b *big.Rat) *big.Rat {
	if a.Cmp(b) <= 0 {
		return new(big.Rat).Set(a)
	}
	return new(big.Rat).Set(b)
}
