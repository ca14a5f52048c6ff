package server

import (
	"log/slog"
	"net/http"

	"village-server/internal/auth"
	battleHandlers "village-server/internal/battle/handlers"
	catalogHandlers "village-server/internal/catalog/handlers"
	constructionHandlers "village-server/internal/construction/handlers"
	"village-server/internal/game"
	gameHandlers "village-server/internal/game/handlers"
	"village-server/internal/middleware"
	playerHandlers "village-server/internal/player/handlers"
	resourceHandlers "village-server/internal/resource/handlers"
	serverHandlers "village-server/internal/server/handlers"
	"village-server/internal/shared/database"
	"village-server/internal/shared/redis"
	trainingHandlers "village-server/internal/training/handlers"
	troopHandlers "village-server/internal/troop/handlers"
)

type Routes struct {
	db     *database.DB
	redis  *redis.Client
	game   *game.Game
	tokens *auth.TokenService
	logger *slog.Logger
}

func NewRoutes(db *database.DB, rdb *redis.Client, g *game.Game, tokens *auth.TokenService, logger *slog.Logger) *Routes {
	return &Routes{
		db:     db,
		redis:  rdb,
		game:   g,
		tokens: tokens,
		logger: logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := r.logger.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()
	protected := middleware.JWT(r.tokens)
	authed := func(h http.HandlerFunc) http.Handler { return protected(h) }

	healthHandler := serverHandlers.NewHealthHandler(r.db, r.redis, r.game.Clock)
	statusHandler := gameHandlers.NewGameStatusHandler(r.game)
	catalogHandler := catalogHandlers.NewCatalogHandler(r.game.Registry)
	meHandler := playerHandlers.NewMeHandler(r.game.Players)
	villageHandler := gameHandlers.NewVillageHandler(r.game)
	resourceHandler := resourceHandlers.NewResourceHandler(r.game.Ledger)
	buildingHandler := constructionHandlers.NewBuildingHandler(r.game.Planner)
	troopHandler := troopHandlers.NewTroopHandler(r.game.Troops)
	trainingHandler := trainingHandlers.NewTrainingHandler(r.game.Scheduler)
	battleHandler := battleHandlers.NewBattleHandler(r.game.Battles)

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.Handle("/api/game/status", statusHandler)
	mux.Handle("/api/catalog", catalogHandler)

	// Protected endpoints
	mux.Handle("GET /api/players/me", protected(meHandler))
	mux.Handle("POST /api/village/init", authed(villageHandler.Init))
	mux.Handle("GET /api/village", authed(villageHandler.Get))
	mux.Handle("GET /api/resources", authed(resourceHandler.Get))
	mux.Handle("POST /api/resources/accrue", authed(resourceHandler.Accrue))
	mux.Handle("POST /api/buildings", authed(buildingHandler.Construct))
	mux.Handle("POST /api/buildings/{id}/upgrade", authed(buildingHandler.Upgrade))
	mux.Handle("GET /api/troops", authed(troopHandler.Inventory))
	mux.Handle("GET /api/defense", authed(troopHandler.Defense))
	mux.Handle("PUT /api/defense", authed(troopHandler.AssignDefense))
	mux.Handle("GET /api/training", authed(trainingHandler.Queue))
	mux.Handle("POST /api/training", authed(trainingHandler.Enqueue))
	mux.Handle("POST /api/training/{id}/resolve", authed(trainingHandler.Resolve))
	mux.Handle("POST /api/training/resolve-due", authed(trainingHandler.ResolveDue))
	mux.Handle("POST /api/battles", authed(battleHandler.Attack))
	mux.Handle("GET /api/battles", authed(battleHandler.History))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/game/status", "/api/catalog"},
		"protected_endpoints", 16,
	)

	return mux
}
