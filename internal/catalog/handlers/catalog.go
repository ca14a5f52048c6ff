package handlers

import (
	"log/slog"
	"net/http"

	"village-server/internal/catalog"
	"village-server/internal/shared/errors"
	"village-server/internal/shared/response"
)

type CatalogHandler struct {
	registry *catalog.Registry
}

func NewCatalogHandler(registry *catalog.Registry) *CatalogHandler {
	return &CatalogHandler{registry: registry}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "catalog")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	response.Success(w, http.StatusOK, h.registry.Document())
}
