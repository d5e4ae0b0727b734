package server

import (
	"log/slog"
	"net/http"

	"galaxy-maker-server/internal/auth"
	"galaxy-maker-server/internal/export"
	exportHandlers "galaxy-maker-server/internal/export/handlers"
	"galaxy-maker-server/internal/middleware"
	serverHandlers "galaxy-maker-server/internal/server/handlers"
	"galaxy-maker-server/internal/session"
	sessionHandlers "galaxy-maker-server/internal/session/handlers"
	"galaxy-maker-server/internal/shared/database"
	"galaxy-maker-server/internal/shared/redis"
)

type Routes struct {
	db             *database.DB
	redis          *redis.Client
	sessionService *session.Service
	exportService  *export.Service
	tokens         *auth.TokenService
	logger         *slog.Logger
}

func NewRoutes(
	db *database.DB,
	redisClient *redis.Client,
	sessionService *session.Service,
	exportService *export.Service,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *Routes {
	return &Routes{
		db:             db,
		redis:          redisClient,
		sessionService: sessionService,
		exportService:  exportService,
		tokens:         tokens,
		logger:         logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := r.logger.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db, r.redis, r.sessionService)
	sessionHandler := sessionHandlers.NewSessionHandler(r.sessionService, r.tokens, r.exportService)
	exportHandler := exportHandlers.NewExportHandler(r.exportService)

	owned := middleware.SessionAuth(r.tokens)
	protect := func(h http.HandlerFunc) http.Handler {
		return owned(h)
	}

	// Public endpoints
	mux.Handle("GET /api/server/health", healthHandler)
	mux.HandleFunc("POST /api/sessions", sessionHandler.CreateSession)
	mux.HandleFunc("POST /api/catalogs", sessionHandler.ImportCatalog)
	mux.HandleFunc("GET /api/exports/{id}", exportHandler.GetExport)

	// Session endpoints (token must name the session)
	mux.Handle("GET /api/sessions/{id}", protect(sessionHandler.GetSession))
	mux.Handle("DELETE /api/sessions/{id}", protect(sessionHandler.DeleteSession))
	mux.Handle("GET /api/sessions/{id}/points", protect(sessionHandler.GetPoints))
	mux.Handle("GET /api/sessions/{id}/history", protect(sessionHandler.GetHistory))
	mux.Handle("POST /api/sessions/{id}/selection", protect(sessionHandler.CommitSelection))
	mux.Handle("DELETE /api/sessions/{id}/selection", protect(sessionHandler.ClearSelection))
	mux.Handle("POST /api/sessions/{id}/advance", protect(sessionHandler.Advance))
	mux.Handle("GET /api/sessions/{id}/sector", protect(sessionHandler.GetSector))
	mux.Handle("GET /api/sessions/{id}/catalog", protect(sessionHandler.GetCatalog))
	mux.Handle("POST /api/sessions/{id}/exports", protect(sessionHandler.PublishExport))
	mux.Handle("GET /api/sessions/{id}/exports", protect(sessionHandler.ListExports))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/sessions", "/api/catalogs", "/api/exports/{id}"},
		"session_endpoints", []string{"/api/sessions/{id}", "/points", "/history", "/selection", "/advance", "/sector", "/catalog", "/exports"},
	)

	return mux
}
