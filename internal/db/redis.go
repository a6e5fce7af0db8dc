package db

import (
	"context"

	"backend-trailhub/internal/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns the catalog cache and active-user client. It returns
// nil when REDIS_ADDR is empty or the server does not answer a ping, and
// everything that takes the client then runs without redis.
func ConnectRedis(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DialTimeout: connectTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
