package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reelhub/reelhub/internal/cache"
	"github.com/reelhub/reelhub/pkg/errors"
	"github.com/reelhub/reelhub/pkg/logger"
	"github.com/reelhub/reelhub/pkg/metrics"
	"github.com/reelhub/reelhub/pkg/response"
)

// RateLimitConfig bounds requests per client IP and route within a fixed window.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// RateLimit limits requests per (client IP, route) using the shared store.
// When the store fails the request is let through.
func RateLimit(store cache.Store, cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || cfg.Requests <= 0 || cfg.Window <= 0 {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := "rate:" + route + ":" + c.ClientIP()

		count, ttl, err := store.IncrementWithTTL(c.Request.Context(), key, cfg.Window)
		if err != nil {
			logger.WithModule("ratelimit").Warn("rate store unavailable", zap.Error(err))
			c.Next()
			return
		}

		remaining := cfg.Requests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(ttl.Round(time.Second).Seconds())))

		if int(count) > cfg.Requests {
			metrics.RateLimited.WithLabelValues(route).Inc()
			c.Header("Retry-After", strconv.Itoa(int(ttl.Round(time.Second).Seconds())))
			response.Abort(c, errors.ErrRateLimit)
			return
		}

		c.Next()
	}
}
