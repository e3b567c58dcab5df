package redis

import (
	"context"
	"log"

	"profile-service/internal/config"

	"github.com/redis/go-redis/v9"
)

// Connect builds the Redis client used for profile read caching. A failed
// ping is logged but not fatal: the cache layer degrades to misses.
func Connect(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: could not connect to Redis at %s: %s", cfg.Address, err)
	} else {
		log.Println("Successfully connected to Redis")
	}

	return client
}
