package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisLocker_HolderKeepsLockPastTTL(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	l := NewRedisLocker(client, nil)
	l.ttl = 300 * time.Millisecond

	tenant := "t-" + time.Now().Format("150405.000000")
	key := Key(tenant, "s1")

	unlock, err := l.Lock(ctx, tenant, "s1")
	require.NoError(t, err)

	time.Sleep(3 * l.ttl)
	exists, err := client.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists, "lease renewed while held")

	unlock()
	unlock()

	exists, err = client.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)
}

func TestRedisLocker_SecondHolderWaits(t *testing.T) {
	client := newTestRedis(t)

	l := NewRedisLocker(client, nil)
	l.ttl = 300 * time.Millisecond
	l.wait = 2 * l.ttl

	tenant := "t-" + time.Now().Format("150405.000000")

	unlock, err := l.Lock(context.Background(), tenant, "s1")
	require.NoError(t, err)
	defer unlock()

	_, err = l.Lock(context.Background(), tenant, "s1")
	assert.ErrorIs(t, err, ErrLockTimeout)
}
