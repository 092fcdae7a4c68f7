package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimiter(t *testing.T, requests int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(rdb, requests, window), mr
}

func TestLimiter_AllowWithinQuota(t *testing.T) {
	limiter, _ := setupLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "1.2.3.4:GET:/contacts")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be allowed", i+1)
	}

	ok, err := limiter.Allow(ctx, "1.2.3.4:GET:/contacts")
	require.NoError(t, err)
	assert.False(t, ok, "request over quota should be rejected")
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	limiter, _ := setupLimiter(t, 1, time.Minute)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "1.2.3.4:GET:/contacts")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "1.2.3.4:GET:/contacts")
	require.NoError(t, err)
	assert.False(t, ok)

	// другой клиент и другой маршрут считаются отдельно
	ok, err = limiter.Allow(ctx, "5.6.7.8:GET:/contacts")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "1.2.3.4:POST:/contacts")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiter_WindowExpires(t *testing.T) {
	limiter, mr := setupLimiter(t, 1, 5*time.Second)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "1.2.3.4:GET:/contacts")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "1.2.3.4:GET:/contacts")
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(6 * time.Second)

	ok, err = limiter.Allow(ctx, "1.2.3.4:GET:/contacts")
	require.NoError(t, err)
	assert.True(t, ok, "counter should reset after the window")
}
