package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/yigit/hogwarts/internal/pkg/logger"
)

const (
	keyPrefix    = "hogwarts:lock:"
	retryBackoff = 50 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another instance is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared by every instance connected to the same Redis.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker returns a locker whose locks expire after ttl if never released.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

// Lock polls SET NX PX until it wins or ctx is done.
func (r *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return func() {
		// release must run even when the request context is already cancelled
		err := releaseScript.Run(context.Background(), r.client, []string{redisKey}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to release redis lock")
		}
	}, nil
}
