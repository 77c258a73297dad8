package middleware

import (
	"time"

	"go-profile-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger writes one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"request_id", c.GetString(RequestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		}
		switch {
		case status >= 500:
			logger.Log.Errorw("HTTP request", fields...)
		case status >= 400:
			logger.Log.Warnw("HTTP request", fields...)
		default:
			logger.Log.Infow("HTTP request", fields...)
		}
	}
}
