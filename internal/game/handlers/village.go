package handlers

import (
	"log/slog"
	"net/http"

	"village-server/internal/game"
	"village-server/internal/middleware"
	"village-server/internal/shared/response"
)

type VillageHandler struct {
	game *game.Game
}

func NewVillageHandler(g *game.Game) *VillageHandler {
	return &VillageHandler{game: g}
}

// Init creates the caller's player record, counters and town hall. It is
// safe to call repeatedly.
func (h *VillageHandler) Init(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "village_init")

	claims := middleware.GetUserFromContext(r)
	playerID, err := middleware.PlayerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	v, err := h.game.Bootstrapper.Bootstrap(r.Context(), playerID, claims.Username)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, v)
}

func (h *VillageHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "village_get")

	playerID, err := middleware.PlayerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	snap, err := h.game.Snapshot(r.Context(), playerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, snap)
}
