package handlers

import (
	"log/slog"
	"net/http"

	"galaxy-maker-server/internal/export"
	"galaxy-maker-server/internal/shared/errors"
	"galaxy-maker-server/internal/shared/response"
)

type ExportHandler struct {
	service *export.Service
}

func NewExportHandler(service *export.Service) *ExportHandler {
	return &ExportHandler{service: service}
}

// GetExport serves a published file as stored.
func (h *ExportHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_export")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		response.Error(w, r, logger, errors.Validation("export ID is required"))
		return
	}

	body, err := h.service.Body(ctx, id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
