// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"wanderstay/config"
)

var (
	// CheckpointCacheClient holds booking checkpoints across the payment redirect.
	CheckpointCacheClient *redis.Client
	// ClaimCacheClient is the dedicated client for return-signal claims.
	ClaimCacheClient *redis.Client
)

// InitRedis initializes all Redis clients used by the booking engine.
func InitRedis() {
	InitCheckpointCache()
	InitClaimCache()
}

// InitCheckpointCache initializes the Redis client for booking checkpoints
// (using DB from AppConfig for checkpoint storage).
func InitCheckpointCache() {
	CheckpointCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCheckpointDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CheckpointCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Checkpoint): %v", err)
	}
}

// GetCheckpointCacheClient returns the Redis client for booking checkpoints.
func GetCheckpointCacheClient() *redis.Client {
	if CheckpointCacheClient == nil {
		InitCheckpointCache()
	}
	return CheckpointCacheClient
}

// InitClaimCache initializes the Redis client for return-signal claims.
func InitClaimCache() {
	ClaimCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisClaimDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := ClaimCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Claim): %v", err)
	}
}

// GetClaimCacheClient returns the Redis client for return-signal claims.
func GetClaimCacheClient() *redis.Client {
	if ClaimCacheClient == nil {
		InitClaimCache()
	}
	return ClaimCacheClient
}
