package resource

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"village-server/internal/shared/clock"
	"village-server/internal/shared/database/dbtest"
	"village-server/internal/shared/errors"
	"village-server/internal/shared/lock"
	"village-server/internal/shared/logger"
)

type staticSource []Generator

func (s staticSource) Generators(context.Context, string) ([]Generator, error) {
	return s, nil
}

// flakyStore fails the next update without touching the stored row.
type flakyStore struct {
	*Repository
	failUpdates int
}

func (s *flakyStore) UpdateCounters(ctx context.Context, c Counters, expectedVersion int64) (bool, error) {
	if s.failUpdates > 0 {
		s.failUpdates--
		return false, errors.WrapStore("failed to update resource counters", stderrors.New("connection reset"))
	}
	return s.Repository.UpdateCounters(ctx, c, expectedVersion)
}

var starting = Amounts{Wood: 1000, Stone: 800, Food: 600, Iron: 400}

func newTestLedger(t *testing.T, store Store, source ProductionSource) (*Ledger, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(epoch)
	return NewLedger(store, source, lock.NewMemoryLocker(time.Second), clk, starting, logger.Discard()), clk
}

func TestLedgerInitializeIsIdempotent(t *testing.T) {
	db := dbtest.New(t)
	dbtest.SeedPlayer(t, db, "p1")
	ledger, clk := newTestLedger(t, NewRepository(db), staticSource(nil))
	ctx := context.Background()

	first, err := ledger.Initialize(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, starting, first.Amounts)
	assert.Equal(t, epoch, first.LastAccrualAt)

	_, err = ledger.Adjust(ctx, "p1", Amounts{Wood: -100})
	require.NoError(t, err)

	clk.Advance(time.Hour)
	second, err := ledger.Initialize(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(900), second.Wood)
	assert.Equal(t, epoch, second.LastAccrualAt)
}

func TestLedgerGetMissingIsNotFound(t *testing.T) {
	db := dbtest.New(t)
	ledger, _ := newTestLedger(t, NewRepository(db), staticSource(nil))

	_, err := ledger.Get(context.Background(), "ghost")
	assert.True(t, errors.Is(err, errors.ErrorTypeNotFound))
}

func TestLedgerAccruesFiveMinutes(t *testing.T) {
	db := dbtest.New(t)
	dbtest.SeedPlayer(t, db, "p1")
	ledger, clk := newTestLedger(t, NewRepository(db), staticSource{{Kind: Wood, BaseRate: 10, MultiplierPct: 100}})
	ctx := context.Background()

	_, err := ledger.Initialize(ctx, "p1")
	require.NoError(t, err)

	clk.Advance(5*time.Minute + 20*time.Second)
	accrual, err := ledger.Accrue(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), accrual.Minutes)

	stored, err := ledger.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1050), stored.Wood)
	assert.Equal(t, starting.Stone, stored.Stone)
	assert.Equal(t, starting.Food, stored.Food)
	assert.Equal(t, starting.Iron, stored.Iron)
	assert.Equal(t, epoch.Add(5*time.Minute), stored.LastAccrualAt)

	clk.Advance(40 * time.Second)
	accrual, err = ledger.Accrue(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), accrual.Minutes)
	assert.Equal(t, int64(1060), accrual.Counters.Wood)
}

func TestLedgerFailedAccrualKeepsWindow(t *testing.T) {
	db := dbtest.New(t)
	dbtest.SeedPlayer(t, db, "p1")
	store := &flakyStore{Repository: NewRepository(db)}
	ledger, clk := newTestLedger(t, store, staticSource{{Kind: Food, BaseRate: 4, MultiplierPct: 100}})
	ctx := context.Background()

	_, err := ledger.Initialize(ctx, "p1")
	require.NoError(t, err)

	clk.Advance(3 * time.Minute)
	store.failUpdates = 1
	_, err = ledger.Accrue(ctx, "p1")
	require.Error(t, err)
	assert.True(t, errors.Retryable(err))

	stored, err := ledger.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, starting.Food, stored.Food)
	assert.Equal(t, epoch, stored.LastAccrualAt)

	accrual, err := ledger.Accrue(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), accrual.Minutes)
	assert.Equal(t, starting.Food+12, accrual.Counters.Food)
}

func TestLedgerAdjustPreservesAccrualClock(t *testing.T) {
	db := dbtest.New(t)
	dbtest.SeedPlayer(t, db, "p1")
	ledger, clk := newTestLedger(t, NewRepository(db), staticSource{{Kind: Wood, BaseRate: 10, MultiplierPct: 100}})
	ctx := context.Background()

	_, err := ledger.Initialize(ctx, "p1")
	require.NoError(t, err)

	clk.Advance(2 * time.Minute)
	adjusted, err := ledger.Adjust(ctx, "p1", Amounts{Wood: -5000, Gold: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(0), adjusted.Wood)
	assert.Equal(t, int64(7), adjusted.Gold)
	assert.Equal(t, epoch, adjusted.LastAccrualAt)

	// Two minutes of production are still owed.
	accrual, err := ledger.Accrue(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(20), accrual.Counters.Wood)
}

func TestLedgerStaleVersionIsBusy(t *testing.T) {
	db := dbtest.New(t)
	dbtest.SeedPlayer(t, db, "p1")
	ledger, _ := newTestLedger(t, NewRepository(db), staticSource(nil))
	ctx := context.Background()

	stale, err := ledger.Initialize(ctx, "p1")
	require.NoError(t, err)

	_, err = ledger.Apply(ctx, stale, Change{Resources: Amounts{Wood: 1}})
	require.NoError(t, err)

	_, err = ledger.Apply(ctx, stale, Change{Resources: Amounts{Wood: 1}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeBusy))
}

func TestLedgerDebit(t *testing.T) {
	db := dbtest.New(t)
	dbtest.SeedPlayer(t, db, "p1")
	ledger, _ := newTestLedger(t, NewRepository(db), staticSource(nil))
	ctx := context.Background()

	current, err := ledger.Initialize(ctx, "p1")
	require.NoError(t, err)

	popCap := int64(20)
	_, err = ledger.Debit(ctx, current, Amounts{Wood: 5000}, Change{})
	assert.True(t, errors.Is(err, errors.ErrorTypeInsufficientResources))

	next, err := ledger.Debit(ctx, current, Amounts{Wood: 100, Iron: 50}, Change{Population: 4, PopulationCap: &popCap})
	require.NoError(t, err)
	assert.Equal(t, int64(900), next.Wood)
	assert.Equal(t, int64(350), next.Iron)
	assert.Equal(t, int64(4), next.PopulationUsed)
	assert.Equal(t, int64(20), next.PopulationCap)
	assert.Equal(t, int64(16), next.PopulationFree())
}
