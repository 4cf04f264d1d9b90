package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grantnet/internal/platform/config"
)

func TestOptions(t *testing.T) {
	t.Run("overlays configured values", func(t *testing.T) {
		opts, err := options(config.RedisConfig{
			URL:          "redis://:secret@cache.internal:6380/2",
			PoolSize:     20,
			MinIdleConns: 4,
			ReadTimeout:  2 * time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, "cache.internal:6380", opts.Addr)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, "secret", opts.Password)
		assert.Equal(t, "grantnet", opts.ClientName)
		assert.Equal(t, 20, opts.PoolSize)
		assert.Equal(t, 4, opts.MinIdleConns)
		assert.Equal(t, 2*time.Second, opts.ReadTimeout)
	})

	t.Run("zero values keep URL defaults", func(t *testing.T) {
		opts, err := options(config.RedisConfig{URL: "redis://localhost:6379/0?dial_timeout=3s"})
		require.NoError(t, err)
		assert.Equal(t, 3*time.Second, opts.DialTimeout)
		assert.Zero(t, opts.PoolSize)
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := options(config.RedisConfig{URL: "http://localhost"})
		assert.ErrorContains(t, err, "parse redis URL")
	})
}

func TestOpenWithoutURL(t *testing.T) {
	client, err := Open(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}
