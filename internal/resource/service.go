package resource

import (
	"context"
	"log/slog"

	"village-server/internal/shared/clock"
	"village-server/internal/shared/errors"
	"village-server/internal/shared/lock"
)

type Store interface {
	GetCounters(ctx context.Context, playerID string) (Counters, error)
	InsertCounters(ctx context.Context, c Counters) (bool, error)
	UpdateCounters(ctx context.Context, c Counters, expectedVersion int64) (bool, error)
}

// ProductionSource lists the producing buildings of a player.
type ProductionSource interface {
	Generators(ctx context.Context, playerID string) ([]Generator, error)
}

// Change is one counters write. PopulationCap, when set, replaces the
// stored cap.
type Change struct {
	Resources     Amounts
	Population    int64
	PopulationCap *int64
}

// Ledger owns the counters of every player. Accrue, Adjust and Initialize
// take the player lock themselves; Load and Apply expect the caller to
// hold it already.
type Ledger struct {
	store    Store
	source   ProductionSource
	locker   lock.Locker
	clock    clock.Clock
	starting Amounts
	logger   *slog.Logger
}

func NewLedger(store Store, source ProductionSource, locker lock.Locker, clk clock.Clock, starting Amounts, logger *slog.Logger) *Ledger {
	return &Ledger{
		store:    store,
		source:   source,
		locker:   locker,
		clock:    clk,
		starting: starting,
		logger:   logger,
	}
}

// Initialize creates counters at the starting quantities. Calling it again
// returns the existing counters unchanged.
func (l *Ledger) Initialize(ctx context.Context, playerID string) (Counters, error) {
	logger := l.logger.With("component", "resource_ledger", "operation", "initialize", "player_id", playerID)

	now := l.clock.Now()
	created, err := l.store.InsertCounters(ctx, Counters{
		PlayerID:      playerID,
		Amounts:       l.starting,
		LastAccrualAt: now,
		Version:       1,
		UpdatedAt:     now,
	})
	if err != nil {
		return Counters{}, err
	}
	if created {
		logger.Info("Resource counters initialized")
	} else {
		logger.Debug("Resource counters already exist")
	}

	return l.store.GetCounters(ctx, playerID)
}

func (l *Ledger) Get(ctx context.Context, playerID string) (Counters, error) {
	return l.store.GetCounters(ctx, playerID)
}

// Load reads counters inside a caller-held lock.
func (l *Ledger) Load(ctx context.Context, playerID string) (Counters, error) {
	return l.store.GetCounters(ctx, playerID)
}

func (l *Ledger) Accrue(ctx context.Context, playerID string) (Accrual, error) {
	release, err := l.locker.Acquire(ctx, playerID)
	if err != nil {
		return Accrual{}, err
	}
	defer release()

	return l.AccrueLocked(ctx, playerID)
}

// AccrueLocked accrues inside a caller-held lock. Production and the new
// accrual time are written together; if the write fails the stored clock is
// untouched and the same window is accrued on the next call.
func (l *Ledger) AccrueLocked(ctx context.Context, playerID string) (Accrual, error) {
	logger := l.logger.With("component", "resource_ledger", "operation", "accrue", "player_id", playerID)

	current, err := l.store.GetCounters(ctx, playerID)
	if err != nil {
		return Accrual{}, err
	}

	generators, err := l.source.Generators(ctx, playerID)
	if err != nil {
		return Accrual{}, err
	}

	accrual := Accrue(current, generators, l.clock.Now())
	if !accrual.Applied() {
		logger.Debug("Less than a minute elapsed, nothing to accrue")
		return accrual, nil
	}

	written, err := l.write(ctx, current, accrual.Counters)
	if err != nil {
		logger.Warn("Accrual not persisted, window kept for retry", "minutes", accrual.Minutes, "error", err)
		return Accrual{}, err
	}
	accrual.Counters = written

	logger.Debug("Resources accrued", "minutes", accrual.Minutes, "produced", accrual.Produced.Map())
	return accrual, nil
}

func (l *Ledger) Adjust(ctx context.Context, playerID string, delta Amounts) (Counters, error) {
	release, err := l.locker.Acquire(ctx, playerID)
	if err != nil {
		return Counters{}, err
	}
	defer release()

	current, err := l.store.GetCounters(ctx, playerID)
	if err != nil {
		return Counters{}, err
	}
	return l.Apply(ctx, current, Change{Resources: delta})
}

// Apply writes change on top of current, clamping at zero and keeping the
// accrual clock. current must be the last value read under the lock.
func (l *Ledger) Apply(ctx context.Context, current Counters, change Change) (Counters, error) {
	next := Adjust(current, change.Resources)
	next = AdjustPopulation(next, change.Population)
	if change.PopulationCap != nil {
		next.PopulationCap = *change.PopulationCap
	}
	return l.write(ctx, current, next)
}

// Debit checks affordability of cost and writes the deduction.
func (l *Ledger) Debit(ctx context.Context, current Counters, cost Amounts, change Change) (Counters, error) {
	if err := CheckAffordable(current.Amounts, cost); err != nil {
		return Counters{}, err
	}
	change.Resources = change.Resources.Sub(cost)
	return l.Apply(ctx, current, change)
}

func (l *Ledger) write(ctx context.Context, current, next Counters) (Counters, error) {
	next.LastAccrualAt = next.LastAccrualAt.UTC()
	next.Version = current.Version + 1
	next.UpdatedAt = l.clock.Now()

	ok, err := l.store.UpdateCounters(ctx, next, current.Version)
	if err != nil {
		return Counters{}, err
	}
	if !ok {
		return Counters{}, errors.Busyf("resource counters of player %s changed concurrently", current.PlayerID)
	}
	return next, nil
}
