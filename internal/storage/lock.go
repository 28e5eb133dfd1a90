package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "houses:lock:"

// releaseScript only deletes the lock when owner still holds it.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// AcquireLock takes name for owner until ttl expires.
// Returns true if the lock was acquired, false if someone else holds it.
func (r *RedisStorage) AcquireLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, lockKeyPrefix+name, owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", name, err)
	}
	return ok, nil
}

// ReleaseLock drops name if owner holds it.
func (r *RedisStorage) ReleaseLock(ctx context.Context, name, owner string) error {
	if err := releaseScript.Run(ctx, r.client, []string{lockKeyPrefix + name}, owner).Err(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", name, err)
	}
	return nil
}
