package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"store-rating/internal/core/metrics"
)

// Metrics records request count, latency and in-flight requests per route
// template. Unmatched paths share one label so scans cannot grow the
// series set.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPInFlight.Inc()
		defer metrics.HTTPInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		metrics.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPLatency.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
