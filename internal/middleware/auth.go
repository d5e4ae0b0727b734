package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"galaxy-maker-server/internal/auth"
	"galaxy-maker-server/internal/shared/cookies"
	"galaxy-maker-server/internal/shared/errors"
	"galaxy-maker-server/internal/shared/response"
)

type contextKey string

const SessionContextKey contextKey = "session"

// SessionAuth admits a request only when its token belongs to the session
// named by the {id} path value.
func SessionAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := slog.With(
				"middleware", "session_auth",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			token := tokenFromRequest(r)
			if token == "" {
				response.Error(w, r, logger, errors.Unauthorized("session token required"))
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				response.Error(w, r, logger, errors.Unauthorized("invalid session token"))
				return
			}

			if id := r.PathValue("id"); id != "" && id != claims.SessionID {
				response.Error(w, r, logger, errors.Forbidden("token does not grant access to this session"))
				return
			}

			logger.Debug("Session token accepted", "session_id", claims.SessionID)
			ctx := context.WithValue(r.Context(), SessionContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(cookies.SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func GetSessionFromContext(r *http.Request) *auth.SessionClaims {
	if claims, ok := r.Context().Value(SessionContextKey).(*auth.SessionClaims); ok {
		return claims
	}
	return nil
}
