package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"village-server/internal/battle"
	"village-server/internal/middleware"
	"village-server/internal/shared/errors"
	"village-server/internal/shared/response"
)

type AttackRequest struct {
	DefenderID string           `json:"defender_id"`
	Troops     map[string]int64 `json:"troops"`
}

type BattleHandler struct {
	battles *battle.Service
}

func NewBattleHandler(battles *battle.Service) *BattleHandler {
	return &BattleHandler{battles: battles}
}

func (h *BattleHandler) Attack(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "battle_attack")

	playerID, err := middleware.PlayerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var req AttackRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if req.DefenderID == "" {
		response.Error(w, r, logger, errors.Validation("defender_id is required"))
		return
	}

	report, err := h.battles.Execute(r.Context(), playerID, req.DefenderID, req.Troops)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, report)
}

func (h *BattleHandler) History(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "battle_history")

	playerID, err := middleware.PlayerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			response.Error(w, r, logger, errors.WrapValidation("invalid limit", err))
			return
		}
	}

	records, err := h.battles.History(r.Context(), playerID, limit)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if records == nil {
		records = []battle.Record{}
	}

	response.Success(w, http.StatusOK, records)
}
