package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexscreen/internal/platform/config"
)

func TestNewDisabledWithoutURL(t *testing.T) {
	rc, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, rc)
}

func TestOptions(t *testing.T) {
	t.Run("overrides apply", func(t *testing.T) {
		opts, err := options(config.RedisConfig{
			URL:          "redis://cache:6380/2",
			PoolSize:     16,
			MinIdleConns: 2,
			ReadTimeout:  750 * time.Millisecond,
		})
		require.NoError(t, err)
		assert.Equal(t, "cache:6380", opts.Addr)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, 16, opts.PoolSize)
		assert.Equal(t, 2, opts.MinIdleConns)
		assert.Equal(t, 750*time.Millisecond, opts.ReadTimeout)
	})

	t.Run("zero values keep url settings", func(t *testing.T) {
		opts, err := options(config.RedisConfig{URL: "redis://cache:6379/0?pool_size=7&dial_timeout=2s"})
		require.NoError(t, err)
		assert.Equal(t, 7, opts.PoolSize)
		assert.Equal(t, 2*time.Second, opts.DialTimeout)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := options(config.RedisConfig{URL: "http://nope"})
		assert.Error(t, err)
	})
}
