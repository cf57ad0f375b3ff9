package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qualityeducation/eduplatform-api/internal/service"
)

// Metrics records request counts and latency per route template.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
