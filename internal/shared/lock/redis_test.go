package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"village-server/internal/shared/errors"
	"village-server/internal/shared/logger"
)

// newRedisClient connects to REDIS_TEST_URL and skips when it is unset.
func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func uniquePlayer(t *testing.T, client *redis.Client) string {
	t.Helper()
	id := uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), keyPrefix+id) })
	return id
}

func TestRedisLockerUnreachableIsStoreFailure(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	locker := NewRedisLocker(client, 2*time.Second, time.Second, logger.Discard())

	_, err := locker.Acquire(context.Background(), "p1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeStoreFailure))
}

func TestRedisLockerTimesOutAsBusy(t *testing.T) {
	client := newRedisClient(t)
	locker := NewRedisLocker(client, 50*time.Millisecond, 5*time.Second, logger.Discard())
	p := uniquePlayer(t, client)

	release, err := locker.Acquire(context.Background(), p)
	require.NoError(t, err)

	_, err = locker.Acquire(context.Background(), p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeBusy))
	assert.True(t, errors.Retryable(err))

	release()
	release()
	again, err := locker.Acquire(context.Background(), p)
	require.NoError(t, err)
	again()
}

func TestRedisLockerReleaseKeepsForeignToken(t *testing.T) {
	client := newRedisClient(t)
	locker := NewRedisLocker(client, 50*time.Millisecond, 5*time.Second, logger.Discard())
	p := uniquePlayer(t, client)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, p)
	require.NoError(t, err)

	// Our key expired and another process took it.
	require.NoError(t, client.Set(ctx, keyPrefix+p, "other-holder", 5*time.Second).Err())
	release()

	holder, err := client.Get(ctx, keyPrefix+p).Result()
	require.NoError(t, err)
	assert.Equal(t, "other-holder", holder)
}

func TestRedisLockerExpiresAfterTTL(t *testing.T) {
	client := newRedisClient(t)
	locker := NewRedisLocker(client, time.Second, 100*time.Millisecond, logger.Discard())
	p := uniquePlayer(t, client)

	_, err := locker.Acquire(context.Background(), p)
	require.NoError(t, err)

	// The holder never releases; the TTL frees the key.
	release, err := locker.Acquire(context.Background(), p)
	require.NoError(t, err)
	release()
}

func TestRedisLockerPartialAcquireRollsBack(t *testing.T) {
	client := newRedisClient(t)
	locker := NewRedisLocker(client, 50*time.Millisecond, 5*time.Second, logger.Discard())
	a, b := uniquePlayer(t, client), uniquePlayer(t, client)

	holdB, err := locker.Acquire(context.Background(), b)
	require.NoError(t, err)
	defer holdB()

	_, err = locker.Acquire(context.Background(), a, b)
	require.Error(t, err)

	exists, err := client.Exists(context.Background(), keyPrefix+a).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}
