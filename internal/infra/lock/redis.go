package lock

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
)

var ErrLockTimeout = errors.New("lock: timed out waiting for staff calendar")

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
end
return 0
`)

// renewScript extends the TTL only while the key still holds our token.
var renewScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("pexpire", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker is a StaffLocker shared by every API instance.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	logger *slog.Logger
}

// The key expires after ttl if the holder dies. While the holder is alive
// the TTL is renewed every ttl/3, so long materialization passes keep it.
func NewRedisLocker(client *redis.Client, logger *slog.Logger) *RedisLocker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLocker{
		client: client,
		ttl:    30 * time.Second,
		wait:   15 * time.Second,
		retry:  50 * time.Millisecond,
		logger: logger.With("component", "redis_locker"),
	}
}

func (l *RedisLocker) Lock(ctx context.Context, tenantID, staffID string) (func(), error) {
	key := Key(tenantID, staffID)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	stop := make(chan struct{})
	go l.renew(key, token, stop)

	var once sync.Once
	return func() {
		once.Do(func() { close(stop) })
		if err := releaseScript.Run(context.Background(), l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("release failed", "key", key, "error", err)
		}
	}, nil
}

func (l *RedisLocker) renew(key, token string, stop <-chan struct{}) {
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			held, err := renewScript.Run(
				context.Background(), l.client, []string{key}, token, l.ttl.Milliseconds(),
			).Int()
			if err != nil {
				l.logger.Warn("renew failed", "key", key, "error", err)
				continue
			}
			if held == 0 {
				l.logger.Warn("lock lost before release", "key", key)
				return
			}
		}
	}
}

var _ domain.StaffLocker = (*RedisLocker)(nil)
