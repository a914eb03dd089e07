package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/logger"
)

// RequestLogger writes one structured line per request
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		log.WithRequestID(c.GetString(RequestIDKey)).LogHTTPRequest(
			c.Request.Method,
			path,
			c.Writer.Status(),
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	}
}
