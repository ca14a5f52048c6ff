package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"village-server/internal/shared/clock"
	"village-server/internal/shared/database"
	"village-server/internal/shared/redis"
	"village-server/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Locks     string `json:"locks"`
}

type HealthHandler struct {
	db    *database.DB
	redis *redis.Client
	clock clock.Clock
}

// NewHealthHandler reports on db and, when configured, the Redis lock
// backend. rdb may be nil.
func NewHealthHandler(db *database.DB, rdb *redis.Client, clk clock.Clock) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb, clock: clk}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: h.clock.Now().Format(time.RFC3339),
		Database:  "connected",
		Locks:     "memory",
	}

	if err := h.db.PingContext(ctx); err != nil {
		logger.Warn("Database ping failed", "error", err)
		resp.Status = "degraded"
		resp.Database = "disconnected"
	}

	if h.redis != nil {
		resp.Locks = "redis"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis ping failed", "error", err)
			resp.Status = "degraded"
			resp.Locks = "redis unreachable"
		}
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	response.Success(w, status, resp)
}
