package middleware

import (
	"strconv"
	"time"

	"agent-settings-api/internal/metrics"

	"github.com/gin-gonic/gin"
)

// CollectHTTPMetrics records request counts and latencies by route template.
func CollectHTTPMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		m.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
