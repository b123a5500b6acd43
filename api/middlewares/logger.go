package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/portal-gateway/tool"
)

const RequestIDHeader = "X-Request-Id"

// RequestLogger tags every response with a request id and logs the request outcome.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := tool.GenerateRandomUUID()
		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		tool.DefaultLogger.Debug("request",
			"id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"client", c.ClientIP(),
			"latency", time.Since(start),
		)
	}
}
