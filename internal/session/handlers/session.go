package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"galaxy-maker-server/internal/auth"
	"galaxy-maker-server/internal/export"
	"galaxy-maker-server/internal/middleware"
	"galaxy-maker-server/internal/sector"
	"galaxy-maker-server/internal/session"
	"galaxy-maker-server/internal/shared/cookies"
	"galaxy-maker-server/internal/shared/errors"
	"galaxy-maker-server/internal/shared/response"
	"galaxy-maker-server/internal/view"
)

const (
	maxRequestBytes = 1 << 20  // 1 MB
	maxSectorBytes  = 32 << 20 // 32 MB
)

type SessionHandler struct {
	service *session.Service
	tokens  *auth.TokenService
	exports *export.Service
}

func NewSessionHandler(service *session.Service, tokens *auth.TokenService, exports *export.Service) *SessionHandler {
	return &SessionHandler{service: service, tokens: tokens, exports: exports}
}

type createResponse struct {
	Session   session.Snapshot `json:"session"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// selectionRequest is a committed drag. Width and height may be negative when
// the drag ran up or left of its start.
type selectionRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type exportRequest struct {
	Kind export.Kind `json:"kind"`
}

// decodeOptional decodes a JSON body into dst, leaving dst untouched when the
// body is empty.
// sessionID names the session a request acts on: the token's sid once
// SessionAuth has run, the path otherwise.
func sessionID(r *http.Request) string {
	if claims := middleware.GetSessionFromContext(r); claims != nil {
		return claims.SessionID
	}
	return r.PathValue("id")
}

func decodeOptional(w http.ResponseWriter, r *http.Request, dst any, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.WrapValidation("invalid JSON in request body", err)
	}
	return nil
}

func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "create_session")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var opts session.CreateOptions
	if err := decodeOptional(w, r, &opts, maxRequestBytes); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	snap, err := h.service.Create(ctx, opts)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(snap.ID)
	if err != nil {
		_ = h.service.Delete(snap.ID)
		response.Error(w, r, logger, errors.WrapInternal("failed to issue session token", err))
		return
	}

	cookies.SetSessionCookie(w, token, expiresAt)
	response.Success(w, http.StatusCreated, createResponse{Session: snap, Token: token, ExpiresAt: expiresAt})
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_session")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	snap, err := h.service.Get(sessionID(r))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, snap)
}

func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "delete_session")

	if r.Method != http.MethodDelete {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	if err := h.service.Delete(sessionID(r)); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	cookies.ClearSessionCookie(w)
	response.Success(w, http.StatusNoContent, nil)
}

func (h *SessionHandler) GetPoints(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_points")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	points, err := h.service.Points(sessionID(r))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, points)
}

func (h *SessionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_history")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	history, err := h.service.History(sessionID(r))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, history)
}

func (h *SessionHandler) CommitSelection(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "commit_selection")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req selectionRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	rect := view.NormalizeRect(req.X, req.Y, req.X+req.Width, req.Y+req.Height)
	summary, err := h.service.Select(sessionID(r), rect)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, summary)
}

func (h *SessionHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "clear_selection")

	if r.Method != http.MethodDelete {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	if err := h.service.ClearSelection(sessionID(r)); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusNoContent, nil)
}

func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "advance")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	result, err := h.service.Advance(ctx, sessionID(r))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}

func (h *SessionHandler) GetSector(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_sector")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	rec, err := h.service.Sector(sessionID(r))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, rec)
}

func (h *SessionHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_catalog")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	cat, err := h.service.Catalog(sessionID(r))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, cat)
}

func (h *SessionHandler) PublishExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "publish_export")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	req := exportRequest{Kind: export.KindCatalog}
	if err := decodeOptional(w, r, &req, maxRequestBytes); err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if !req.Kind.Valid() {
		response.Error(w, r, logger, errors.Validationf("unknown export kind %q", req.Kind))
		return
	}

	id := sessionID(r)
	rec, err := h.service.Sector(id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var published *export.Published
	switch req.Kind {
	case export.KindSector:
		published, err = h.exports.PublishSector(ctx, id, rec)
	case export.KindCatalog:
		cat, catErr := h.service.Catalog(id)
		if catErr != nil {
			response.Error(w, r, logger, catErr)
			return
		}
		published, err = h.exports.PublishCatalog(ctx, id, rec.GalaxyType, cat)
	}
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, published)
}

func (h *SessionHandler) ListExports(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_exports")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	exports, err := h.exports.ListBySession(r.Context(), sessionID(r))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, exports)
}

// ImportCatalog synthesizes a catalog for an uploaded sector file.
func (h *SessionHandler) ImportCatalog(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "import_catalog")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var rec sector.Record
	r.Body = http.MaxBytesReader(w, r.Body, maxSectorBytes)
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid sector file", err))
		return
	}

	cat, err := h.service.CatalogFromSector(&rec)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, cat)
}
