package construction

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"village-server/internal/catalog"
	"village-server/internal/construction/mocks"
	"village-server/internal/resource"
	"village-server/internal/shared/clock"
	"village-server/internal/shared/database/dbtest"
	"village-server/internal/shared/errors"
	"village-server/internal/shared/lock"
	"village-server/internal/shared/logger"
	"village-server/internal/village"
)

var epoch = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

type env struct {
	registry *catalog.Registry
	clock    *clock.Manual
	locker   lock.Locker
	villages *village.Service
	ledger   *resource.Ledger
	planner  *Planner
}

func newEnv(t *testing.T, players ...string) *env {
	t.Helper()
	db := dbtest.New(t)
	reg, err := catalog.Default()
	require.NoError(t, err)

	e := &env{registry: reg, clock: clock.NewManual(epoch), locker: lock.NewMemoryLocker(time.Second)}
	log := logger.Discard()
	e.villages = village.NewService(village.NewRepository(db), reg, e.clock, log)
	e.ledger = resource.NewLedger(resource.NewRepository(db), e.villages, e.locker, e.clock, reg.StartingResources(), log)
	e.planner = NewPlanner(e.villages, e.ledger, reg, e.locker, log)

	for _, p := range players {
		dbtest.SeedPlayer(t, db, p)
		_, err := e.ledger.Initialize(context.Background(), p)
		require.NoError(t, err)
	}
	return e
}

func (e *env) withTownHall(t *testing.T, playerID string) village.Building {
	t.Helper()
	th, _, err := e.villages.EnsureTownHall(context.Background(), playerID)
	require.NoError(t, err)
	return th
}

func (e *env) counters(t *testing.T, playerID string) resource.Counters {
	t.Helper()
	c, err := e.ledger.Get(context.Background(), playerID)
	require.NoError(t, err)
	return c
}

func TestConstructDeductsCost(t *testing.T) {
	e := newEnv(t, "p1")
	e.withTownHall(t, "p1")
	e.clock.Advance(30 * time.Second)

	result, err := e.planner.Construct(context.Background(), "p1", "house", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, result.Warning)
	assert.Equal(t, "house", result.Building.TypeID)
	assert.Equal(t, 1, result.Building.Level)

	c := e.counters(t, "p1")
	assert.Equal(t, int64(1000-120), c.Wood)
	assert.Equal(t, int64(800-60), c.Stone)
	assert.Equal(t, int64(10+5), c.PopulationCap)
	assert.Equal(t, epoch, c.LastAccrualAt)
}

func TestConstructOccupiedPositionWins(t *testing.T) {
	e := newEnv(t, "p1")
	th := e.withTownHall(t, "p1")

	// Drain resources so affordability would fail too.
	_, err := e.ledger.Adjust(context.Background(), "p1", resource.Amounts{Wood: -10_000, Stone: -10_000})
	require.NoError(t, err)

	_, err = e.planner.Construct(context.Background(), "p1", "no_such_type", th.X, th.Y)
	assert.True(t, errors.Is(err, errors.ErrorTypePositionOccupied))
}

func TestConstructRejections(t *testing.T) {
	e := newEnv(t, "p1")
	e.withTownHall(t, "p1")
	ctx := context.Background()

	_, err := e.planner.Construct(ctx, "p1", "farm", 15, 0)
	assert.True(t, errors.Is(err, errors.ErrorTypeValidation))

	_, err = e.planner.Construct(ctx, "p1", "castle", 0, 0)
	assert.True(t, errors.Is(err, errors.ErrorTypeNotFound))

	_, err = e.planner.Construct(ctx, "p1", "gold_mine", 0, 0)
	assert.True(t, errors.Is(err, errors.ErrorTypeTownHallLevelTooLow))

	_, err = e.planner.Construct(ctx, "p1", catalog.TownHall, 0, 0)
	assert.True(t, errors.Is(err, errors.ErrorTypeDuplicateUnique))

	before := e.counters(t, "p1")
	_, err = e.planner.Construct(ctx, "p1", "mage_tower", 0, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeInsufficientResources))
	assert.Equal(t, "insufficient resources: elixir short by 50", err.Error())
	assert.Equal(t, before, e.counters(t, "p1"))

	buildings, err := e.villages.Buildings(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, buildings, 1)
}

func TestConstructInsufficientResourcesNamesDeficit(t *testing.T) {
	e := newEnv(t, "p1")
	e.withTownHall(t, "p1")
	_, err := e.ledger.Adjust(context.Background(), "p1", resource.Amounts{Stone: -790})
	require.NoError(t, err)

	_, err = e.planner.Construct(context.Background(), "p1", "lumber_mill", 0, 0)
	require.Error(t, err)
	assert.Equal(t, "insufficient resources: stone short by 90", err.Error())
	assert.Equal(t, map[resource.Kind]int64{resource.Stone: 90}, errors.GetDetails(err)["shortfall"])
}

func TestWallCapAtTownHallLevelOne(t *testing.T) {
	e := newEnv(t, "p1")
	e.withTownHall(t, "p1")
	ctx := context.Background()

	for x := 0; x < 5; x++ {
		_, err := e.planner.Construct(ctx, "p1", "wall", x, 0)
		require.NoError(t, err, "wall %d", x+1)
	}

	_, err := e.planner.Construct(ctx, "p1", "wall", 5, 0)
	assert.True(t, errors.Is(err, errors.ErrorTypeBuildingLimit))
}

func TestConstructCreatesMissingTownHall(t *testing.T) {
	e := newEnv(t, "p1")

	result, err := e.planner.Construct(context.Background(), "p1", "farm", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "farm", result.Building.TypeID)

	buildings, err := e.villages.Buildings(context.Background(), "p1")
	require.NoError(t, err)
	census := village.TakeCensus(e.registry, buildings)
	require.NotNil(t, census.TownHall)
	assert.Equal(t, village.Position{X: 7, Y: 7}, census.TownHall.Position())
}

func TestUpgradeRules(t *testing.T) {
	e := newEnv(t, "p1")
	th := e.withTownHall(t, "p1")
	ctx := context.Background()

	farm, err := e.planner.Construct(ctx, "p1", "farm", 0, 0)
	require.NoError(t, err)

	_, err = e.planner.Upgrade(ctx, "p1", farm.Building.ID, 3)
	assert.True(t, errors.Is(err, errors.ErrorTypeValidation))

	_, err = e.planner.Upgrade(ctx, "p1", farm.Building.ID, 2)
	assert.True(t, errors.Is(err, errors.ErrorTypeTownHallLevelTooLow))

	_, err = e.planner.Upgrade(ctx, "p1", th.ID, 2)
	assert.True(t, errors.Is(err, errors.ErrorTypeInsufficientResources))

	_, err = e.ledger.Adjust(ctx, "p1", resource.Amounts{Wood: 2000, Stone: 2000})
	require.NoError(t, err)

	result, err := e.planner.Upgrade(ctx, "p1", th.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Building.Level)
	assert.Equal(t, int64(15), result.Resources.PopulationCap)

	result, err = e.planner.Upgrade(ctx, "p1", farm.Building.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Building.Level)

	// A building may reach the town hall level but not pass it.
	_, err = e.planner.Upgrade(ctx, "p1", farm.Building.ID, 3)
	assert.True(t, errors.Is(err, errors.ErrorTypeTownHallLevelTooLow))

	_, err = e.planner.Upgrade(ctx, "p2", th.ID, 3)
	assert.True(t, errors.Is(err, errors.ErrorTypeNotFound))
}

func TestUpgradeTownHallPastMaxLevel(t *testing.T) {
	e := newEnv(t, "p1")
	th := e.withTownHall(t, "p1")
	ctx := context.Background()

	for level := 2; level <= 4; level++ {
		var err error
		th, err = e.villages.SetLevel(ctx, th, level)
		require.NoError(t, err)
	}
	require.Equal(t, 4, th.Level)

	_, err := e.ledger.Adjust(ctx, "p1", resource.Amounts{Wood: 1_000_000, Stone: 1_000_000, Iron: 1_000_000, Gold: 1_000_000})
	require.NoError(t, err)
	_, err = e.planner.Upgrade(ctx, "p1", th.ID, 5)
	assert.True(t, errors.Is(err, errors.ErrorTypeMaxLevelExceeded))

	_, err = e.ledger.Adjust(ctx, "p1", resource.Amounts{Wood: -2_000_000, Stone: -2_000_000, Iron: -2_000_000, Gold: -2_000_000})
	require.NoError(t, err)
	_, err = e.planner.Upgrade(ctx, "p1", th.ID, 5)
	assert.True(t, errors.Is(err, errors.ErrorTypeMaxLevelExceeded))
}

func TestConstructDeductionFailureKeepsBuilding(t *testing.T) {
	e := newEnv(t, "p1")
	e.withTownHall(t, "p1")
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	current := e.counters(t, "p1")
	ledger := mocks.NewMockLedger(ctrl)
	ledger.EXPECT().AccrueLocked(gomock.Any(), "p1").Return(resource.Accrual{Counters: current}, nil)
	ledger.EXPECT().Debit(gomock.Any(), current, gomock.Any(), gomock.Any()).
		Return(resource.Counters{}, errors.WrapStore("failed to update resource counters", stderrors.New("disk full")))

	planner := NewPlanner(e.villages, ledger, e.registry, e.locker, logger.Discard())
	result, err := planner.Construct(ctx, "p1", "farm", 2, 2)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Warning)
	assert.Equal(t, current, result.Resources)

	stored, err := e.villages.Building(ctx, "p1", result.Building.ID)
	require.NoError(t, err)
	assert.Equal(t, "farm", stored.TypeID)
	assert.Equal(t, current, e.counters(t, "p1"))
}

func TestUpgradeRefundsWhenLevelWriteFails(t *testing.T) {
	e := newEnv(t, "p1")
	th := e.withTownHall(t, "p1")
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	_, err := e.ledger.Adjust(ctx, "p1", resource.Amounts{Stone: 500})
	require.NoError(t, err)
	before := e.counters(t, "p1")

	villages := mocks.NewMockVillage(ctrl)
	villages.EXPECT().Building(gomock.Any(), "p1", th.ID).Return(th, nil)
	villages.EXPECT().Buildings(gomock.Any(), "p1").Return([]village.Building{th}, nil)
	villages.EXPECT().SetLevel(gomock.Any(), th, 2).
		Return(village.Building{}, errors.WrapStore("failed to update building level", stderrors.New("timeout")))

	planner := NewPlanner(villages, e.ledger, e.registry, e.locker, logger.Discard())
	_, err = planner.Upgrade(ctx, "p1", th.ID, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeStoreFailure))

	after := e.counters(t, "p1")
	assert.Equal(t, before.Amounts, after.Amounts)
	assert.Equal(t, before.PopulationCap, after.PopulationCap)
	assert.Equal(t, before.LastAccrualAt, after.LastAccrualAt)
}

func TestConstructAfterIdleGapOnlyPaysNewBuildingForLaterTime(t *testing.T) {
	e := newEnv(t, "p1")
	e.withTownHall(t, "p1")
	ctx := context.Background()

	e.clock.Advance(time.Hour)
	result, err := e.planner.Construct(ctx, "p1", "lumber_mill", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(time.Hour), result.Resources.LastAccrualAt)
	assert.Equal(t, int64(1000-50), result.Resources.Wood)

	e.clock.Advance(5 * time.Minute)
	accrual, err := e.ledger.Accrue(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), accrual.Minutes)
	assert.Equal(t, map[resource.Kind]int64{resource.Wood: 50}, accrual.Produced.Map())
}

func TestUpgradeSettlesProductionAtOldLevel(t *testing.T) {
	e := newEnv(t, "p1")
	th := e.withTownHall(t, "p1")
	ctx := context.Background()

	_, err := e.ledger.Adjust(ctx, "p1", resource.Amounts{Wood: 2000, Stone: 2000, Iron: 200})
	require.NoError(t, err)
	mill, err := e.planner.Construct(ctx, "p1", "lumber_mill", 0, 0)
	require.NoError(t, err)
	_, err = e.planner.Upgrade(ctx, "p1", th.ID, 2)
	require.NoError(t, err)
	before := e.counters(t, "p1")

	e.clock.Advance(time.Hour)
	result, err := e.planner.Upgrade(ctx, "p1", mill.Building.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(time.Hour), result.Resources.LastAccrualAt)
	assert.Equal(t, before.Wood+60*10-150, result.Resources.Wood)

	// Level 2: 10 × 150% + 1 flat per minute.
	e.clock.Advance(5 * time.Minute)
	accrual, err := e.ledger.Accrue(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), accrual.Minutes)
	assert.Equal(t, int64(80), accrual.Produced.Wood)
}
