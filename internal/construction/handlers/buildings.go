package handlers

import (
	"log/slog"
	"net/http"

	"village-server/internal/construction"
	"village-server/internal/middleware"
	"village-server/internal/shared/errors"
	"village-server/internal/shared/response"
)

type ConstructRequest struct {
	BuildingType string `json:"building_type"`
	X            *int   `json:"x"`
	Y            *int   `json:"y"`
}

type UpgradeRequest struct {
	TargetLevel int `json:"target_level"`
}

type BuildingHandler struct {
	planner *construction.Planner
}

func NewBuildingHandler(planner *construction.Planner) *BuildingHandler {
	return &BuildingHandler{planner: planner}
}

func (h *BuildingHandler) Construct(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "construct_building")

	playerID, err := middleware.PlayerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var req ConstructRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if req.BuildingType == "" || req.X == nil || req.Y == nil {
		response.Error(w, r, logger, errors.Validation("building_type, x and y are required"))
		return
	}

	result, err := h.planner.Construct(r.Context(), playerID, req.BuildingType, *req.X, *req.Y)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, result)
}

func (h *BuildingHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "upgrade_building")

	playerID, err := middleware.PlayerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	buildingID := r.PathValue("id")
	if buildingID == "" {
		response.Error(w, r, logger, errors.Validation("building ID is required"))
		return
	}

	var req UpgradeRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	result, err := h.planner.Upgrade(r.Context(), playerID, buildingID, req.TargetLevel)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}
