package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg"
	"go.uber.org/zap"
)

// RequestLogger writes one structured line per request. Run it after TraceID.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String(pkg.TraceId, c.GetString(pkg.TraceId)),
			zap.String(pkg.RequestId, c.GetHeader(pkg.HeaderRequestId)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("request completed", fields...)
		case status >= 400:
			logger.Warn("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}
