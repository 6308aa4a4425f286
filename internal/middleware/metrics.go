// metrics.go
package middleware

import (
	"strconv"
	"time"

	"bbexpress-api/internal/metrics"

	"github.com/gin-gonic/gin"
)

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.RequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.ResponseTime.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}
