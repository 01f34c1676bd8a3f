package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisPrefix = "site:"

type Redis struct {
	Client *redis.Client
	TTL    time.Duration
	log    *zap.Logger
}

func NewRedis(url string, ttl time.Duration, log *zap.Logger) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Redis{Client: redis.NewClient(opt), TTL: ttl, log: log}, nil
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.Client.Get(ctx, redisPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return val, true
}

func (c *Redis) Set(ctx context.Context, key string, val []byte) {
	if err := c.Client.Set(ctx, redisPrefix+key, val, c.TTL).Err(); err != nil {
		c.log.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Redis) Invalidate(ctx context.Context, key string) error {
	if key != "" && !strings.EqualFold(key, AllKeys) {
		return c.Client.Del(ctx, redisPrefix+key).Err()
	}
	iter := c.Client.Scan(ctx, 0, redisPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.Client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Ping backs the readiness probe.
func (c *Redis) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	return c.Client.Close()
}
