package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDKey is the gin context key holding the request correlation ID.
const RequestIDKey = "request_id"

// GinLogger returns a middleware for logging HTTP requests
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		// Process request
		c.Next()

		// Log request details
		duration := time.Since(startTime)
		statusCode := c.Writer.Status()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
			zap.Int("status", statusCode),
			zap.Duration("duration", duration),
			zap.Int("body_size", c.Writer.Size()),
		}
		if id := c.GetString(RequestIDKey); id != "" {
			fields = append(fields, zap.String(RequestIDKey, id))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case statusCode >= 500:
			Logger.Error("HTTP Request", fields...)
		case statusCode >= 400:
			Logger.Warn("HTTP Request", fields...)
		default:
			Logger.Info("HTTP Request", fields...)
		}
	}
}

// FromContext returns the global logger tagged with the request ID, if any.
func FromContext(c *gin.Context) *zap.Logger {
	if id := c.GetString(RequestIDKey); id != "" {
		return Logger.With(zap.String(RequestIDKey, id))
	}
	return Logger
}
