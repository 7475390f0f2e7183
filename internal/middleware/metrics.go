package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smart-college/college-api/internal/service"
)

// Metrics records per-request duration and status. Uses the route template
// as the path label so IDs don't explode cardinality.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
