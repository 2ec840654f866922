package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"taskapi/internal/telemetry"
)

// CORS stamps every response with the configured origin and answers
// preflight requests with a static 200.
func CORS(allowOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		c.Header("Content-Type", "application/json")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{})
			return
		}

		c.Next()
	}
}

// AccessLog logs one structured line per request, trace-correlated.
func AccessLog(logger *otelzap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		logger.Ctx(c.Request.Context()).Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// Metrics records request duration and totals per route.
func Metrics(metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()

		if path == "" {
			path = "unmatched"
		}

		metrics.RecordRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
