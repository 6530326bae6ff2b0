package redis

import (
	"github.com/redis/go-redis/v9"

	"github.com/kalakriti-store/commerce-api/internal/logger"
)

var client *redis.Client

// Init connects the shared client. An empty URL leaves redis disabled;
// consumers fall back gracefully.
func Init(redisURL string) {
	if redisURL == "" {
		return
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.ErrorLogger.Errorf("invalid REDIS_URL, redis disabled: %v", err)
		return
	}

	client = redis.NewClient(opts)
}

func GetRedisClient() *redis.Client {
	return client
}
