// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"moim/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient caches computed optimal-time results.
	CacheClient *redis.Client
	// AuthCacheClient tracks revoked session tokens.
	AuthCacheClient *redis.Client
)

// newRedisClient connects to the shared Redis instance on the given logical
// DB and fails fast when it is unreachable.
func newRedisClient(db int, role string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", role, err)
	}
	return client
}

// InitCache initializes the Redis client used for optimal-time caching.
func InitCache() {
	CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "cache")
}

// GetCacheClient returns the optimal-time cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitAuthCache initializes the Redis client used for token revocation.
func InitAuthCache() {
	AuthCacheClient = newRedisClient(config.AppConfig.RedisAuthDB, "auth")
}

// GetAuthCacheClient returns the token-revocation client.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}
