package redis

import (
	"context"
	"errors"
	"time"

	"github.com/ds124wfegd/filterbench/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	logrus.WithField("addr", cfg.Addr).Info("Redis client configured")
	return client
}

// ArtifactCache stores processed image bytes by evaluation digest.
type ArtifactCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewArtifactCache(client *redis.Client, ttl time.Duration) *ArtifactCache {
	return &ArtifactCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *ArtifactCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *ArtifactCache) Set(ctx context.Context, key string, data []byte) error {
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *ArtifactCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *ArtifactCache) Close() error {
	return c.client.Close()
}
