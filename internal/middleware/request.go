package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "requestId"
)

// RequestID tags every request with an id, reusing the caller's header when
// present, and logs one line per request once it completes.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		log.Printf("[HTTP] [INFO] %s %s status=%d latency=%s id=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), id)
	}
}
