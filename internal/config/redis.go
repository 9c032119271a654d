package config

import (
	"context"

	"github.com/redis/go-redis/v9"

	"wiki-echo/internal/pkg/logger"
)

func NewRedisClient(cfg *Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	client.AddHook(logger.NewRedisLogger())

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
