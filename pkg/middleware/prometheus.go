package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eduardoinoa18/memorybox/pkg/metrics"
)

// PrometheusMiddleware records request count and latency.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		metrics.RequestCounter.WithLabelValues(method, path).Inc()

		duration := time.Since(start).Seconds()
		metrics.RequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}
