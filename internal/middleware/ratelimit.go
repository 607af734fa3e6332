package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/myhome-api/internal/config"
	"github.com/myhome-api/pkg/response"
)

// RateLimitMiddleware throttles requests per client IP and path with a
// fixed window counter in redis. When redis is unavailable the request is
// let through; throttling is protection, not a dependency.
func RateLimitMiddleware(rdb *redis.Client, cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled || rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}

	window := time.Duration(cfg.WindowSeconds) * time.Second

	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", c.ClientIP(), c.FullPath())
		ctx := c.Request.Context()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			LogError("ratelimit: redis incr failed: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				LogError("ratelimit: redis expire failed: %v", err)
			}
		}

		if count > int64(cfg.Requests) {
			response.TooManyRequests(c, "too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
