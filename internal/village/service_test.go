package village

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"village-server/internal/catalog"
	"village-server/internal/player"
	"village-server/internal/resource"
	"village-server/internal/shared/clock"
	"village-server/internal/shared/database/dbtest"
	"village-server/internal/shared/errors"
	"village-server/internal/shared/lock"
	"village-server/internal/shared/logger"
)

var epoch = time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

func TestEnsureTownHallPlacesAtCenterOnce(t *testing.T) {
	db := dbtest.New(t)
	dbtest.SeedPlayer(t, db, "p1")
	service := NewService(NewRepository(db), mustRegistry(t), clock.NewManual(epoch), logger.Discard())
	ctx := context.Background()

	th, created, err := service.EnsureTownHall(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, Position{X: 7, Y: 7}, th.Position())
	assert.Equal(t, 1, th.Level)

	again, created, err := service.EnsureTownHall(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, th.ID, again.ID)

	buildings, err := service.Buildings(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, buildings, 1)
}

func TestPlaceRejectsOccupiedCell(t *testing.T) {
	db := dbtest.New(t)
	dbtest.SeedPlayer(t, db, "p1")
	dbtest.SeedPlayer(t, db, "p2")
	service := NewService(NewRepository(db), mustRegistry(t), clock.NewManual(epoch), logger.Discard())
	ctx := context.Background()

	_, err := service.Place(ctx, "p1", "farm", Position{X: 3, Y: 3})
	require.NoError(t, err)

	_, err = service.Place(ctx, "p1", "quarry", Position{X: 3, Y: 3})
	assert.True(t, errors.Is(err, errors.ErrorTypePositionOccupied))

	// Positions are per player.
	_, err = service.Place(ctx, "p2", "quarry", Position{X: 3, Y: 3})
	assert.NoError(t, err)
}

func TestBuildingIsScopedToOwner(t *testing.T) {
	db := dbtest.New(t)
	dbtest.SeedPlayer(t, db, "p1")
	dbtest.SeedPlayer(t, db, "p2")
	service := NewService(NewRepository(db), mustRegistry(t), clock.NewManual(epoch), logger.Discard())
	ctx := context.Background()

	b, err := service.Place(ctx, "p1", "farm", Position{X: 1, Y: 1})
	require.NoError(t, err)

	got, err := service.Building(ctx, "p1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	_, err = service.Building(ctx, "p2", b.ID)
	assert.True(t, errors.Is(err, errors.ErrorTypeNotFound))
}

func TestSetLevelDetectsConcurrentChange(t *testing.T) {
	db := dbtest.New(t)
	dbtest.SeedPlayer(t, db, "p1")
	service := NewService(NewRepository(db), mustRegistry(t), clock.NewManual(epoch), logger.Discard())
	ctx := context.Background()

	b, err := service.Place(ctx, "p1", "farm", Position{X: 1, Y: 1})
	require.NoError(t, err)

	upgraded, err := service.SetLevel(ctx, b, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, upgraded.Level)

	_, err = service.SetLevel(ctx, b, 2)
	assert.True(t, errors.Is(err, errors.ErrorTypeBusy))
}

func TestBootstrap(t *testing.T) {
	db := dbtest.New(t)
	reg := mustRegistry(t)
	clk := clock.NewManual(epoch)
	locker := lock.NewMemoryLocker(time.Second)
	log := logger.Discard()

	villages := NewService(NewRepository(db), reg, clk, log)
	ledger := resource.NewLedger(resource.NewRepository(db), villages, locker, clk, reg.StartingResources(), log)
	players := player.NewService(player.NewRepository(db), clk, log)
	bootstrapper := NewBootstrapper(players, ledger, villages, locker, log)
	ctx := context.Background()

	v, err := bootstrapper.Bootstrap(ctx, "p1", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", v.Player.Username)
	assert.Equal(t, reg.StartingResources(), v.Counters.Amounts)
	assert.Equal(t, catalog.TownHall, v.TownHall.TypeID)
	assert.Equal(t, int64(10), v.Counters.PopulationCap)
	assert.Len(t, v.Buildings, 1)

	again, err := bootstrapper.Bootstrap(ctx, "p1", "alice")
	require.NoError(t, err)
	assert.Equal(t, v.TownHall.ID, again.TownHall.ID)
	assert.Equal(t, v.Counters.Version, again.Counters.Version)
}
