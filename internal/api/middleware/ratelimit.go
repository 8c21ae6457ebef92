package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nikhildixit-321/codeArena-sub000/pkg/logger"
	"github.com/nikhildixit-321/codeArena-sub000/pkg/ratelimit"
)

// RateLimitConfig configures the in-process token bucket limiter.
type RateLimitConfig struct {
	Capacity   int64 // burst size
	RefillRate int64 // tokens per second
	KeyFunc    func(*gin.Context) string
}

// RedisRateLimitConfig configures the Redis fixed-window limiter shared across
// instances.
type RedisRateLimitConfig struct {
	Limiter *ratelimit.RedisLimiter
	Limit   int
	Window  time.Duration
	KeyFunc func(*gin.Context) string
}

// DefaultKeyFunc keys by user ID when authenticated, IP otherwise.
func DefaultKeyFunc(c *gin.Context) string {
	if userID, exists := c.Get("userID"); exists {
		return fmt.Sprintf("user:%v", userID)
	}
	return fmt.Sprintf("ip:%s", c.ClientIP())
}

// IPKeyFunc keys by IP only, for unauthenticated endpoints.
func IPKeyFunc(c *gin.Context) string {
	return fmt.Sprintf("ip:%s", c.ClientIP())
}

// UserKeyFunc keys by user ID and requires authentication.
func UserKeyFunc(c *gin.Context) string {
	if userID, exists := c.Get("userID"); exists {
		return fmt.Sprintf("user:%v", userID)
	}
	return ""
}

// RateLimit applies a per-key token bucket.
func RateLimit(config RateLimitConfig) gin.HandlerFunc {
	limiter := ratelimit.NewLimiter(config.Capacity, config.RefillRate)

	if config.KeyFunc == nil {
		config.KeyFunc = DefaultKeyFunc
	}

	return func(c *gin.Context) {
		key := config.KeyFunc(c)
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required for rate limiting",
			})
			c.Abort()
			return
		}

		if !limiter.Allow(key) {
			c.Header("X-RateLimit-Limit", strconv.FormatInt(config.Capacity, 10))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "1")

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(config.Capacity, 10))
		c.Next()
	}
}

// RedisRateLimit applies a fixed-window limit backed by Redis. Redis errors
// fail open so a cache outage does not take the API down with it.
func RedisRateLimit(config RedisRateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = DefaultKeyFunc
	}
	if config.Limit <= 0 {
		config.Limit = 60
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}

	return func(c *gin.Context) {
		key := config.KeyFunc(c)
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required for rate limiting",
			})
			c.Abort()
			return
		}

		allowed, err := config.Limiter.Allow(context.Background(), key, config.Limit, config.Window)
		if err != nil {
			logger.Warn("Redis rate limit check failed", "key", key, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))

		if !allowed {
			retryAfter := int(config.Window.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": retryAfter,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// AuthRateLimit limits login/register attempts per IP.
func AuthRateLimit() gin.HandlerFunc {
	return RateLimit(RateLimitConfig{
		Capacity:   5,
		RefillRate: 1,
		KeyFunc:    IPKeyFunc,
	})
}

// GeneralAPIRateLimit limits overall API traffic per IP/user.
func GeneralAPIRateLimit() gin.HandlerFunc {
	return RateLimit(RateLimitConfig{
		Capacity:   100,
		RefillRate: 10,
		KeyFunc:    DefaultKeyFunc,
	})
}

// RedisAuthRateLimit is the distributed variant of AuthRateLimit.
func RedisAuthRateLimit(limiter *ratelimit.RedisLimiter) gin.HandlerFunc {
	return RedisRateLimit(RedisRateLimitConfig{
		Limiter: limiter,
		Limit:   5,
		Window:  time.Minute,
		KeyFunc: IPKeyFunc,
	})
}

// RedisResultRateLimit limits out-of-band result recording per user.
func RedisResultRateLimit(limiter *ratelimit.RedisLimiter) gin.HandlerFunc {
	return RedisRateLimit(RedisRateLimitConfig{
		Limiter: limiter,
		Limit:   30,
		Window:  time.Minute,
		KeyFunc: UserKeyFunc,
	})
}
