package handlers

import (
	"log/slog"
	"net/http"

	"village-server/internal/middleware"
	"village-server/internal/shared/errors"
	"village-server/internal/shared/response"
	"village-server/internal/troop"
)

type AssignDefenseRequest struct {
	BuildingID string `json:"building_id"`
	TroopType  string `json:"troop_type"`
	Quantity   int64  `json:"quantity"`
}

type TroopHandler struct {
	troops *troop.Service
}

func NewTroopHandler(troops *troop.Service) *TroopHandler {
	return &TroopHandler{troops: troops}
}

func (h *TroopHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "troop_inventory")

	playerID, err := middleware.PlayerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	inv, err := h.troops.Inventory(r.Context(), playerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, inv)
}

func (h *TroopHandler) Defense(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "defense_get")

	playerID, err := middleware.PlayerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	assignments, err := h.troops.DefenseOf(r.Context(), playerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if assignments == nil {
		assignments = []troop.Assignment{}
	}

	response.Success(w, http.StatusOK, assignments)
}

func (h *TroopHandler) AssignDefense(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "defense_assign")

	playerID, err := middleware.PlayerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var req AssignDefenseRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if req.BuildingID == "" || req.TroopType == "" {
		response.Error(w, r, logger, errors.Validation("building_id and troop_type are required"))
		return
	}

	assignments, err := h.troops.AssignDefense(r.Context(), playerID, req.BuildingID, req.TroopType, req.Quantity)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if assignments == nil {
		assignments = []troop.Assignment{}
	}

	response.Success(w, http.StatusOK, assignments)
}
