package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dreschagin/marine-dashboard/internal/application/port"
)

var _ port.Cache = (*RedisCache)(nil)

func startRedis(t *testing.T) *RedisCache {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Redis container test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	cache, err := NewRedisCache(Options{Addr: endpoint, TTL: time.Minute, KeyPrefix: "test:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

type cachedConditions struct {
	Score *int `json:"score"`
}

func TestRedisCache_RoundTripAndMiss(t *testing.T) {
	cache := startRedis(t)
	ctx := context.Background()

	var dest cachedConditions
	err := cache.Get(ctx, "ocean:conditions:24h:global:1", &dest)
	assert.True(t, errors.Is(err, port.ErrCacheMiss))

	score := 87
	require.NoError(t, cache.SetWithTTL(ctx, "ocean:conditions:24h:global:1", cachedConditions{Score: &score}, time.Minute))
	require.NoError(t, cache.Get(ctx, "ocean:conditions:24h:global:1", &dest))
	require.NotNil(t, dest.Score)
	assert.Equal(t, 87, *dest.Score)
}

func TestRedisCache_DeletePattern(t *testing.T) {
	cache := startRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "ocean:conditions:a", 1))
	require.NoError(t, cache.Set(ctx, "ocean:conditions:b", 2))
	require.NoError(t, cache.Set(ctx, "sustainability:snapshot:a", 3))

	require.NoError(t, cache.DeletePattern(ctx, "ocean:conditions:*"))

	var v int
	assert.ErrorIs(t, cache.Get(ctx, "ocean:conditions:a", &v), port.ErrCacheMiss)
	assert.ErrorIs(t, cache.Get(ctx, "ocean:conditions:b", &v), port.ErrCacheMiss)
	require.NoError(t, cache.Get(ctx, "sustainability:snapshot:a", &v))
	assert.Equal(t, 3, v)

	// Пустой набор ключей не ошибка
	require.NoError(t, cache.DeletePattern(ctx, "missing:*"))
}
