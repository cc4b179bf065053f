package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts and latency.  Route templates, not raw
// paths, become the path label so parameterized routes do not explode
// cardinality.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(started))
	}
}
