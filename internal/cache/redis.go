package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"wellpath-backend-V2.0/internal/config"
	"wellpath-backend-V2.0/utilities"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// GetRedis returns the shared client, connecting on first use. Returns nil
// when Redis is disabled in configuration.
func GetRedis() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.GetConfig()
		if cfg == nil || !cfg.Redis.Enabled {
			return
		}
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			utilities.Error("Failed to connect to Redis: %v", err)
		} else {
			utilities.Info("Connected to Redis")
		}
	})

	return redisClient
}

func CloseRedis() error {
	if redisClient != nil {
		return redisClient.Close()
	}
	return nil
}
