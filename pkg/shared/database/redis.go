package database

import (
	"context"

	"github.com/redis/go-redis/v9"

	"kriyatec.com/medstore-api/pkg/shared/config"
)

// Cache is nil when no redis address is configured.
var Cache *redis.Client

func InitCache(ctx context.Context, cfg config.Redis) error {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return err
	}
	Cache = client
	return nil
}
