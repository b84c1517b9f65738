package lock

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisLock implements RunLock over Redis SET NX with a TTL, so a crashed
// run cannot hold a date hostage forever.
type RedisLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLock(addr string, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisLock{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

func (l *RedisLock) Acquire(ctx context.Context, key string) error {
	ok, err := l.rdb.SetNX(ctx, l.redisKey(key), "1", l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire run lock %q: %w", key, err)
	}
	if !ok {
		return &ErrHeld{Key: key}
	}
	return nil
}

func (l *RedisLock) Release(ctx context.Context, key string) error {
	if err := l.rdb.Del(ctx, l.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("release run lock %q: %w", key, err)
	}
	return nil
}

func (l *RedisLock) Close() error { return l.rdb.Close() }

func (l *RedisLock) redisKey(key string) string { return "schedule_lock:" + key }
