package trigger

import (
	"context"
	"time"
	
	"github.com/redis/go-redis/v9"
)

// Guard remembers which events were already handled.
type Guard interface {
	// Claim returns false when key was claimed before and has not expired.
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{
		client: client,
		ttl:    ttl,
	}
}

func (g *RedisGuard) Claim(ctx context.Context, key string) (bool, error) {
	return g.client.SetNX(ctx, guardKey(key), time.Now().Unix(), g.ttl).Result()
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, guardKey(key)).Err()
}

func guardKey(key string) string {
	return "trigger:handled:" + key
}
