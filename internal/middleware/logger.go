package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/task-manager-api/internal/constants"
	"go.uber.org/zap"
)

// RequestLogger tags each request with an id and logs it once it completes
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(constants.HeaderRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(constants.HeaderRequestID, requestID)

		c.Next()

		fields := []zap.Field{
			zap.String("requestID", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("clientIP", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("userAgent", c.Request.UserAgent()),
		}
		if userID, ok := GetUserID(c); ok {
			fields = append(fields, zap.Uint64("userID", userID))
		}

		if len(c.Errors) > 0 {
			log.Error("request", append(fields, zap.Strings("errors", c.Errors.Errors()))...)
			return
		}
		log.Info("request", fields...)
	}
}

// GetRequestID returns the id assigned by RequestLogger
func GetRequestID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyRequestID)
}
