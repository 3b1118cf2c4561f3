package sample

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-Id"
	requestIDKey    = "request_id"
)

// RequestIDMiddleware echoes the caller's X-Request-Id, or assigns one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			zap.String("path", path),
			zap.String("query", query),
			zap.String("method", c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDKey)),
		}
		switch {
		case c.Writer.Status() >= 500:
			logger.Error("request failed", append(fields, zap.Strings("errors", c.Errors.Errors()))...)
		case len(c.Errors) > 0:
			logger.Warn("request rejected", append(fields, zap.Strings("errors", c.Errors.Errors()))...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}
