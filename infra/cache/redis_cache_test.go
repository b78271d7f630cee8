package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/fxconvert/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisCache starts a Redis container and returns a RedisCache of the
// given size pointed at it.
func setupRedisCache(tb testing.TB, size int) *RedisCache {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping redis integration test in short mode")
	}
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.0.5",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		tb.Skipf("redis container unavailable: %v", err)
	}
	tb.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(tb, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(tb, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := NewRedisCache("redis://"+host+":"+port.Port()+"/0", "test:rate:", size, logger)
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = c.Close() })
	require.NoError(tb, c.Ping(ctx))
	return c
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	c := setupRedisCache(t, DefaultSize)
	ctx := context.Background()

	got, err := c.Get(ctx, "USD:EUR")
	require.NoError(t, err)
	assert.Nil(t, got)

	rate := &domain.ExchangeRate{
		From:      "USD",
		To:        "EUR",
		Rate:      0.9123,
		FetchedAt: time.Now().UTC().Truncate(time.Second),
		Source:    "test",
	}
	require.NoError(t, c.Set(ctx, "USD:EUR", rate, time.Minute))

	got, err = c.Get(ctx, "USD:EUR")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rate.From, got.From)
	assert.InDelta(t, rate.Rate, got.Rate, 1e-12)
	assert.True(t, rate.FetchedAt.Equal(got.FetchedAt))

	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, c.Delete(ctx, "USD:EUR"))
	got, err = c.Get(ctx, "USD:EUR")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCache_Expiry(t *testing.T) {
	c := setupRedisCache(t, DefaultSize)
	ctx := context.Background()

	rate := &domain.ExchangeRate{From: "USD", To: "GBP", Rate: 0.78}
	require.NoError(t, c.Set(ctx, "USD:GBP", rate, time.Second))

	require.Eventually(t, func() bool {
		got, err := c.Get(ctx, "USD:GBP")
		return err == nil && got == nil
	}, 5*time.Second, 100*time.Millisecond)
}

func TestRedisCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := setupRedisCache(t, 100)
	ctx := context.Background()

	for i := range 100 {
		key := fmt.Sprintf("K%03d:EUR", i)
		require.NoError(t, c.Set(ctx, key, &domain.ExchangeRate{From: "USD", To: "EUR", Rate: float64(i)}, time.Minute))
	}
	// touch the oldest so the second oldest becomes the eviction candidate
	got, err := c.Get(ctx, "K000:EUR")
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, c.Set(ctx, "K100:EUR", &domain.ExchangeRate{From: "USD", To: "EUR", Rate: 100}, time.Minute))

	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, n)

	got, err = c.Get(ctx, "K001:EUR")
	require.NoError(t, err)
	assert.Nil(t, got, "least recently used pair should be evicted")

	for _, key := range []string{"K000:EUR", "K002:EUR", "K100:EUR"} {
		got, err = c.Get(ctx, key)
		require.NoError(t, err)
		assert.NotNil(t, got, key)
	}
}

func TestRedisCache_RepeatedSetCountsOnce(t *testing.T) {
	c := setupRedisCache(t, 2)
	ctx := context.Background()
	rate := &domain.ExchangeRate{From: "USD", To: "EUR", Rate: 0.9}

	for range 5 {
		require.NoError(t, c.Set(ctx, "USD:EUR", rate, time.Minute))
	}
	require.NoError(t, c.Set(ctx, "USD:GBP", rate, time.Minute))

	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, c.Delete(ctx, "USD:EUR"))
	n, err = c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
