package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"taskapi/internal/logging"
	"taskapi/internal/telemetry"
)

// EndpointLimit is a fixed window per client key.
type EndpointLimit struct {
	Requests int
	Window   time.Duration
}

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

// RateLimiter manages per-endpoint fixed-window limits keyed by
// client IP.
type RateLimiter struct {
	cache   *cache.Cache
	limits  map[string]EndpointLimit
	logger  *logging.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.Mutex
}

func NewRateLimiter(logger *logging.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	limits := map[string]EndpointLimit{
		"POST /tasks": {
			Requests: 20,
			Window:   time.Minute,
		},
		"GET /tasks": {
			Requests: 100,
			Window:   time.Minute,
		},
		"GET /tasks/:taskId": {
			Requests: 100,
			Window:   time.Minute,
		},
		"PUT /tasks/:taskId": {
			Requests: 30,
			Window:   time.Minute,
		},
		"DELETE /tasks/:taskId": {
			Requests: 30,
			Window:   time.Minute,
		},
		"default": {
			Requests: 60,
			Window:   time.Minute,
		},
	}

	return &RateLimiter{
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		limits:  limits,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.Request.Method + " " + c.FullPath()

		limit, exists := rl.limits[endpoint]

		if !exists {
			limit = rl.limits["default"]
		}

		key := fmt.Sprintf("%s|%s", endpoint, c.ClientIP())

		if !rl.allow(key, limit) {
			rl.logger.Warn("Rate limit exceeded", map[string]any{
				"endpoint": endpoint,
				"clientIp": c.ClientIP(),
			})
			rl.metrics.RecordRateLimitHit(endpoint)

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many requests",
			})
			return
		}

		rl.metrics.RecordRateLimitAllowed(endpoint)

		c.Next()
	}
}

func (rl *RateLimiter) allow(key string, limit EndpointLimit) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()

	var entry rateLimitEntry

	if cached, found := rl.cache.Get(key); found {
		entry = cached.(rateLimitEntry)
	}

	if entry.ResetTime.IsZero() || now.After(entry.ResetTime) {
		entry = rateLimitEntry{Count: 0, ResetTime: now.Add(limit.Window)}
	}

	if entry.Count >= limit.Requests {
		rl.cache.Set(key, entry, cache.DefaultExpiration)
		return false
	}

	entry.Count++
	rl.cache.Set(key, entry, cache.DefaultExpiration)

	return true
}
