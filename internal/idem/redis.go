package idem

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisGuard backs the duplicate window with Redis so detection survives
// process restarts and spans replicas.
type RedisGuard struct {
	R   *redis.Client
	TTL time.Duration
}

// NewRedisGuard returns a guard with the standard window.
func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{R: client, TTL: DefaultTTL}
}

func (g *RedisGuard) CheckDuplicate(ctx context.Context, key string) (string, bool, error) {
	orderID, err := g.R.Get(ctx, hashKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return orderID, true, nil
}

// Record stores the key with a fresh expiry. Redis expires entries on its
// own, so no sweep is needed.
func (g *RedisGuard) Record(ctx context.Context, key, orderID string) error {
	return g.R.Set(ctx, hashKey(key), orderID, g.TTL).Err()
}
