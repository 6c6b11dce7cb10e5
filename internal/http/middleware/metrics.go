package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"clienthub.app/hub/common/metrics"
)

// Metrics records request counts and latency labelled by route template, so
// request IDs in the path never become label values.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
