package middleware

import (
	"strconv"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request counts and latency per route template
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
