package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestDedupe(t *testing.T) (*RedisDedupe, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisDedupe(client, time.Minute), mr
}

func TestRedisDedupeRoundTrip(t *testing.T) {
	dedupe, _ := newTestDedupe(t)
	ctx := context.Background()

	seen, err := dedupe.AlreadyProcessed(ctx, "SM123")
	require.NoError(t, err)
	require.False(t, seen)

	require.NoError(t, dedupe.MarkProcessed(ctx, "SM123"))

	seen, err = dedupe.AlreadyProcessed(ctx, "SM123")
	require.NoError(t, err)
	require.True(t, seen)
}

func TestRedisDedupeExpires(t *testing.T) {
	dedupe, mr := newTestDedupe(t)
	ctx := context.Background()

	require.NoError(t, dedupe.MarkProcessed(ctx, "SM123"))
	mr.FastForward(2 * time.Minute)

	seen, err := dedupe.AlreadyProcessed(ctx, "SM123")
	require.NoError(t, err)
	require.False(t, seen)
}
