package handlers

import (
	"log/slog"
	"net/http"

	"village-server/internal/middleware"
	"village-server/internal/player"
	"village-server/internal/shared/response"
)

type MeHandler struct {
	players *player.Service
}

func NewMeHandler(players *player.Service) *MeHandler {
	return &MeHandler{players: players}
}

// ServeHTTP returns the stored record of the authenticated player.
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "me")

	playerID, err := middleware.PlayerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	p, err := h.players.GetPlayerByID(r.Context(), playerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, p)
}
