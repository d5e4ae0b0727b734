package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"galaxy-maker-server/internal/auth"
	"galaxy-maker-server/internal/middleware"
)

func TestSessionID(t *testing.T) {
	t.Run("token claims", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/sessions/abc", nil)
		req.SetPathValue("id", "abc")
		ctx := context.WithValue(req.Context(), middleware.SessionContextKey, &auth.SessionClaims{SessionID: "abc"})

		assert.Equal(t, "abc", sessionID(req.WithContext(ctx)))
	})

	t.Run("path only", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/sessions/xyz", nil)
		req.SetPathValue("id", "xyz")

		assert.Equal(t, "xyz", sessionID(req))
	})
}
