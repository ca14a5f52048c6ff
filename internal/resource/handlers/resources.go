package handlers

import (
	"log/slog"
	"net/http"

	"village-server/internal/middleware"
	"village-server/internal/resource"
	"village-server/internal/shared/response"
)

type ResourceHandler struct {
	ledger *resource.Ledger
}

func NewResourceHandler(ledger *resource.Ledger) *ResourceHandler {
	return &ResourceHandler{ledger: ledger}
}

// Get accrues pending production and returns the counters.
func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "resources_get")

	accrual, ok := h.accrue(w, r, logger)
	if !ok {
		return
	}
	response.Success(w, http.StatusOK, accrual.Counters)
}

// Accrue reports what the accrual produced along with the counters.
func (h *ResourceHandler) Accrue(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "resources_accrue")

	accrual, ok := h.accrue(w, r, logger)
	if !ok {
		return
	}
	response.Success(w, http.StatusOK, map[string]any{
		"minutes":   accrual.Minutes,
		"produced":  accrual.Produced.Map(),
		"resources": accrual.Counters,
	})
}

func (h *ResourceHandler) accrue(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (resource.Accrual, bool) {
	playerID, err := middleware.PlayerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return resource.Accrual{}, false
	}

	accrual, err := h.ledger.Accrue(r.Context(), playerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return resource.Accrual{}, false
	}
	return accrual, true
}
