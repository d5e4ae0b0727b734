package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewTokenServiceRejectsShortSecret(t *testing.T) {
	_, err := NewTokenService("short", time.Hour)
	assert.Error(t, err)
}

func TestIssueAndValidate(t *testing.T) {
	tokens, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	signed, expiresAt, err := tokens.Issue("abc")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tokens.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, "abc", claims.SessionID)
	assert.Equal(t, "session_abc", claims.Subject)
}

func TestValidateFailures(t *testing.T) {
	tokens, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	signed, _, err := tokens.Issue("abc")
	require.NoError(t, err)

	t.Run("other secret", func(t *testing.T) {
		other, err := NewTokenService(strings.Repeat("x", 40), time.Hour)
		require.NoError(t, err)
		_, err = other.Validate(signed)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := *tokens
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Validate(signed)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Validate("not.a.token")
		assert.Error(t, err)
	})
}
