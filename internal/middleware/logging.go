package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"connect-service/internal/logger"
)

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]any{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"route":     c.FullPath(),
			"status":    c.Writer.Status(),
			"latency":   time.Since(start),
			"client_ip": c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("request", fields)
		case status >= 400:
			logger.Warn("request", fields)
		default:
			logger.Info("request", fields)
		}
	}
}
