package handlers

import (
	"log/slog"
	"net/http"

	"village-server/internal/middleware"
	"village-server/internal/shared/errors"
	"village-server/internal/shared/response"
	"village-server/internal/training"
)

type EnqueueRequest struct {
	TroopType  string `json:"troop_type"`
	BuildingID string `json:"building_id"`
	Quantity   int64  `json:"quantity"`
}

type TrainingHandler struct {
	scheduler *training.Scheduler
}

func NewTrainingHandler(scheduler *training.Scheduler) *TrainingHandler {
	return &TrainingHandler{scheduler: scheduler}
}

func (h *TrainingHandler) Queue(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "training_queue")

	playerID, err := middleware.PlayerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	entries, err := h.scheduler.Queue(r.Context(), playerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if entries == nil {
		entries = []training.Entry{}
	}

	response.Success(w, http.StatusOK, entries)
}

func (h *TrainingHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "training_enqueue")

	playerID, err := middleware.PlayerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var req EnqueueRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if req.TroopType == "" || req.BuildingID == "" {
		response.Error(w, r, logger, errors.Validation("troop_type and building_id are required"))
		return
	}

	result, err := h.scheduler.Enqueue(r.Context(), playerID, req.TroopType, req.BuildingID, req.Quantity)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, result)
}

func (h *TrainingHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "training_resolve")

	playerID, err := middleware.PlayerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	entryID := r.PathValue("id")
	if entryID == "" {
		response.Error(w, r, logger, errors.Validation("training entry ID is required"))
		return
	}

	entry, err := h.scheduler.Resolve(r.Context(), playerID, entryID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, entry)
}

func (h *TrainingHandler) ResolveDue(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "training_resolve_due")

	playerID, err := middleware.PlayerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	entries, err := h.scheduler.ResolveDue(r.Context(), playerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if entries == nil {
		entries = []training.Entry{}
	}

	response.Success(w, http.StatusOK, entries)
}
