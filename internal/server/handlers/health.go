package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"galaxy-maker-server/internal/shared/database"
	"galaxy-maker-server/internal/shared/redis"
	"galaxy-maker-server/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Cache     string `json:"cache"`
	Sessions  int    `json:"sessions"`
}

// SessionCounter reports how many drill-down sessions are live.
type SessionCounter interface {
	Count() int
}

type HealthHandler struct {
	db       *database.DB
	redis    *redis.Client
	sessions SessionCounter
}

func NewHealthHandler(db *database.DB, redisClient *redis.Client, sessions SessionCounter) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient, sessions: sessions}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	dbStatus := "disabled"
	if h.db != nil {
		dbStatus = "connected"
		if err := h.db.PingContext(r.Context()); err != nil {
			dbStatus = "disconnected"
			logger.Warn("Database ping failed", "error", err)
		}
	}

	cacheStatus := "disabled"
	if h.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		cacheStatus = "connected"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			cacheStatus = "disconnected"
			logger.Warn("Redis ping failed", "error", err)
		}
	}

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  dbStatus,
		Cache:     cacheStatus,
		Sessions:  h.sessions.Count(),
	}

	response.Success(w, http.StatusOK, resp)
}
