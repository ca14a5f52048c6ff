package lock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"village-server/internal/shared/errors"
)

const keyPrefix = "village:lock:player:"

// releaseScript deletes the key only if it still holds our token, so a lock
// that expired and was re-acquired by another process is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker holds player locks as SET NX PX keys so several server
// processes share one serialization domain.
type RedisLocker struct {
	client  *redis.Client
	timeout time.Duration
	ttl     time.Duration
	retry   time.Duration
	logger  *slog.Logger
}

func NewRedisLocker(client *redis.Client, timeout, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	return &RedisLocker{
		client:  client,
		timeout: timeout,
		ttl:     ttl,
		retry:   25 * time.Millisecond,
		logger:  logger.With("component", "redis_locker"),
	}
}

type heldKey struct {
	key   string
	token string
}

func (l *RedisLocker) Acquire(ctx context.Context, playerIDs ...string) (Release, error) {
	keys := orderedKeys(playerIDs)

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	held := make([]heldKey, 0, len(keys))
	release := func() {
		// Release must run even when the request context is already done.
		releaseCtx, releaseCancel := context.WithTimeout(context.Background(), time.Second)
		defer releaseCancel()
		for i := len(held) - 1; i >= 0; i-- {
			if err := releaseScript.Run(releaseCtx, l.client, []string{held[i].key}, held[i].token).Err(); err != nil {
				l.logger.Warn("Failed to release player lock, it will expire by TTL",
					"key", held[i].key, "error", err)
			}
		}
	}

	for _, id := range keys {
		key := keyPrefix + id
		token := uuid.NewString()
		for {
			ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
			if err == nil && ok {
				held = append(held, heldKey{key: key, token: token})
				break
			}
			if err != nil && ctx.Err() == nil {
				release()
				return nil, errors.WrapStore("failed to acquire player lock", err)
			}

			select {
			case <-time.After(l.retry):
			case <-ctx.Done():
				release()
				l.logger.Debug("Player lock acquisition timed out", "player_id", id, "timeout", l.timeout)
				return nil, errors.Busyf("player %s is busy, retry shortly", id)
			}
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}
