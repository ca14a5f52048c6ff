package resource

import (
	"fmt"
	"strings"
	"time"

	"village-server/internal/shared/errors"
)

// Generator is one producing building reduced to the numbers accrual needs.
type Generator struct {
	Kind          Kind  `json:"kind"`
	BaseRate      int64 `json:"base_rate"`
	MultiplierPct int64 `json:"multiplier_pct"`
	FlatBonus     int64 `json:"flat_bonus"`
}

// Produce floors once per building over the whole window.
func (g Generator) Produce(minutes int64) int64 {
	if minutes <= 0 {
		return 0
	}
	return g.BaseRate*g.MultiplierPct*minutes/100 + g.FlatBonus*minutes
}

type Accrual struct {
	Minutes  int64    `json:"minutes"`
	Produced Amounts  `json:"produced"`
	Counters Counters `json:"counters"`
}

// Applied reports whether at least one whole minute was accrued.
func (a Accrual) Applied() bool {
	return a.Minutes > 0
}

// Accrue converts whole elapsed minutes into production. The accrual clock
// moves forward by exactly the accrued minutes so a sub-minute remainder is
// kept for the next call. Less than one minute is a no-op.
func Accrue(c Counters, generators []Generator, now time.Time) Accrual {
	if !now.After(c.LastAccrualAt) {
		return Accrual{Counters: c}
	}

	minutes := int64(now.Sub(c.LastAccrualAt) / time.Minute)
	if minutes < 1 {
		return Accrual{Counters: c}
	}

	var produced Amounts
	for _, g := range generators {
		produced.Set(g.Kind, produced.Get(g.Kind)+g.Produce(minutes))
	}

	next := c
	next.Amounts = c.Amounts.Add(produced)
	next.LastAccrualAt = c.LastAccrualAt.Add(time.Duration(minutes) * time.Minute)

	return Accrual{Minutes: minutes, Produced: produced, Counters: next}
}

// Adjust applies a signed delta with every kind floored at zero. The accrual
// clock is carried over untouched.
func Adjust(c Counters, delta Amounts) Counters {
	next := c
	for _, k := range Kinds {
		v := c.Get(k) + delta.Get(k)
		if v < 0 {
			v = 0
		}
		next.Set(k, v)
	}
	return next
}

func AdjustPopulation(c Counters, delta int64) Counters {
	next := c
	next.PopulationUsed += delta
	if next.PopulationUsed < 0 {
		next.PopulationUsed = 0
	}
	return next
}

// Shortfall returns the positive deficit per kind of have against cost.
func Shortfall(have, cost Amounts) Amounts {
	var short Amounts
	for _, k := range Kinds {
		if d := cost.Get(k) - have.Get(k); d > 0 {
			short.Set(k, d)
		}
	}
	return short
}

// CheckAffordable fails with insufficient_resources naming each short kind.
func CheckAffordable(have, cost Amounts) error {
	short := Shortfall(have, cost)
	if short.IsZero() {
		return nil
	}

	parts := make([]string, 0, len(Kinds))
	for _, k := range Kinds {
		if d := short.Get(k); d > 0 {
			parts = append(parts, fmt.Sprintf("%s short by %d", k, d))
		}
	}

	return errors.WithDetails(errors.ErrorTypeInsufficientResources,
		"insufficient resources: "+strings.Join(parts, ", "),
		map[string]any{
			"required":  cost.Map(),
			"shortfall": short.Map(),
		})
}
