package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"galaxy-maker-server/internal/shared/errors"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type outcome struct {
	status int
	level  slog.Level
	msg    string
}

var outcomes = map[errors.ErrorType]outcome{
	errors.ErrorTypeNotFound:         {http.StatusNotFound, slog.LevelDebug, "Resource not found"},
	errors.ErrorTypeValidation:       {http.StatusBadRequest, slog.LevelDebug, "Rejected request"},
	errors.ErrorTypeConflict:         {http.StatusConflict, slog.LevelInfo, "Request conflicts with session state"},
	errors.ErrorTypeMethodNotAllowed: {http.StatusMethodNotAllowed, slog.LevelInfo, "Method not allowed"},
	errors.ErrorTypeUnauthorized:     {http.StatusUnauthorized, slog.LevelWarn, "Session token rejected"},
	errors.ErrorTypeForbidden:        {http.StatusForbidden, slog.LevelWarn, "Session token names another session"},
	errors.ErrorTypeTooManyRequests:  {http.StatusTooManyRequests, slog.LevelWarn, "Capacity limit reached"},
	errors.ErrorTypeExternal:         {http.StatusServiceUnavailable, slog.LevelError, "Backing service failed"},
	errors.ErrorTypeInternal:         {http.StatusInternalServerError, slog.LevelError, "Internal server error"},
}

func outcomeFor(t errors.ErrorType) outcome {
	if o, ok := outcomes[t]; ok {
		return o
	}
	return outcomes[errors.ErrorTypeInternal]
}

// Error logs err once, at a level matching its type, and writes the JSON
// error body. Handlers and middleware never log the errors they pass here.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	errorType := errors.GetType(err)
	o := outcomeFor(errorType)

	logger.Log(r.Context(), o.level, o.msg,
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"error_type", errorType,
		"status_code", o.status,
		"error", err,
	)

	message := err.Error()
	if o.status >= http.StatusInternalServerError {
		// internals stay in the log
		message = http.StatusText(o.status)
	}

	writeJSON(w, o.status, ErrorResponse{Error: string(errorType), Message: message, Code: o.status})
}

// Success writes data as JSON. A nil data writes only the status line.
func Success(w http.ResponseWriter, statusCode int, data any) {
	if data == nil {
		w.WriteHeader(statusCode)
		return
	}
	writeJSON(w, statusCode, data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// the status line is already out; an encode failure has nowhere to go
	_ = json.NewEncoder(w).Encode(v)
}
