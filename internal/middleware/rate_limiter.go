package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/kalakriti-store/commerce-api/internal/logger"
	db "github.com/kalakriti-store/commerce-api/internal/redis"
)

// NewRateLimiter throttles a route per client IP using a redis-backed
// window, e.g. rate "20-1m". Without redis it degrades to a pass-through so
// the API keeps working in single-instance setups.
func NewRateLimiter(rateStr, routeID string) gin.HandlerFunc {
	rdb := db.GetRedisClient()
	if rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}

	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		logger.ErrorLogger.Errorf("rate limiter: bad rate %q for route %s: %v", rateStr, routeID, err)
		return func(c *gin.Context) { c.Next() }
	}

	store, err := redisstore.NewStoreWithOptions(rdb, limiter.StoreOptions{
		Prefix:          fmt.Sprintf("rate_limiter:%s", routeID),
		MaxRetry:        3,
		CleanUpInterval: rate.Period,
	})
	if err != nil {
		logger.ErrorLogger.Errorf("rate limiter: redis store for route %s: %v", routeID, err)
		return func(c *gin.Context) { c.Next() }
	}

	return ginmiddleware.NewMiddleware(limiter.New(store, rate))
}
