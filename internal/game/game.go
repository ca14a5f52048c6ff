// Package game wires the village components together for the server and
// the end-to-end tests.
package game

import (
	"log/slog"

	"village-server/internal/battle"
	"village-server/internal/catalog"
	"village-server/internal/construction"
	"village-server/internal/player"
	"village-server/internal/resource"
	"village-server/internal/shared/clock"
	"village-server/internal/shared/database"
	"village-server/internal/shared/lock"
	"village-server/internal/training"
	"village-server/internal/troop"
	"village-server/internal/village"
)

type Game struct {
	Registry     *catalog.Registry
	Clock        clock.Clock
	Players      *player.Service
	Villages     *village.Service
	Bootstrapper *village.Bootstrapper
	Ledger       *resource.Ledger
	Troops       *troop.Service
	Planner      *construction.Planner
	Scheduler    *training.Scheduler
	Battles      *battle.Service
	logger       *slog.Logger
}

func New(db *database.DB, registry *catalog.Registry, locker lock.Locker, clk clock.Clock, logger *slog.Logger) *Game {
	g := &Game{Registry: registry, Clock: clk, logger: logger}

	g.Players = player.NewService(player.NewRepository(db), clk, logger)
	g.Villages = village.NewService(village.NewRepository(db), registry, clk, logger)
	g.Ledger = resource.NewLedger(resource.NewRepository(db), g.Villages, locker, clk, registry.StartingResources(), logger)
	g.Bootstrapper = village.NewBootstrapper(g.Players, g.Ledger, g.Villages, locker, logger)
	g.Troops = troop.NewService(troop.NewRepository(db), g.Villages, registry, locker, logger)
	g.Planner = construction.NewPlanner(g.Villages, g.Ledger, registry, locker, logger)
	g.Scheduler = training.NewScheduler(training.NewRepository(db), g.Villages, g.Ledger, g.Troops, db, registry, locker, clk, logger)
	g.Battles = battle.NewService(battle.NewRepository(db), g.Villages, g.Ledger, g.Troops, db, registry, locker, clk, logger)

	logger.Debug("Game components wired",
		"component", "game",
		"building_types", len(registry.Buildings()),
		"troop_types", len(registry.Troops()))
	return g
}
