package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galaxy-maker-server/internal/shared/config"
)

func TestOptions(t *testing.T) {
	t.Run("host and port", func(t *testing.T) {
		opts, err := Options(config.RedisConfig{Host: "cache", Port: "6380", DB: 2, Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, "cache:6380", opts.Addr)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, "pw", opts.Password)
	})

	t.Run("url wins", func(t *testing.T) {
		opts, err := Options(config.RedisConfig{URL: "redis://:secret@example.com:6390/3", Host: "ignored"})
		require.NoError(t, err)
		assert.Equal(t, "example.com:6390", opts.Addr)
		assert.Equal(t, 3, opts.DB)
		assert.Equal(t, "secret", opts.Password)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := Options(config.RedisConfig{URL: "http://example.com"})
		assert.Error(t, err)
	})
}

func TestConnectDisabled(t *testing.T) {
	c, err := Connect(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, c.Close())
}
