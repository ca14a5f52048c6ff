package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"village-server/internal/game"
	"village-server/internal/shared/errors"
	"village-server/internal/shared/response"
)

type GameStatusResponse struct {
	Game          string    `json:"game"`
	Players       int       `json:"players"`
	GridSize      int       `json:"grid_size"`
	BuildingTypes int       `json:"building_types"`
	TroopTypes    int       `json:"troop_types"`
	ServerTime    time.Time `json:"server_time"`
}

type GameStatusHandler struct {
	game *game.Game
}

func NewGameStatusHandler(g *game.Game) *GameStatusHandler {
	return &GameStatusHandler{game: g}
}

func (h *GameStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "game_status")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	playerCount, err := h.game.Players.GetPlayerCount(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, GameStatusResponse{
		Game:          "Village",
		Players:       playerCount,
		GridSize:      h.game.Registry.GridSize(),
		BuildingTypes: len(h.game.Registry.Buildings()),
		TroopTypes:    len(h.game.Registry.Troops()),
		ServerTime:    h.game.Clock.Now(),
	})
}
