package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts, latencies and in-flight requests. Paths are
// labelled by route template so that codes in URLs do not explode the label
// set.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	if m == nil {
		m = prometheus.NewNopMetrics()
	}
	return func(c *gin.Context) {
		method := c.Request.Method
		active := m.HTTPActiveRequests.WithLabelValues(method)
		active.Inc()
		start := time.Now()

		c.Next()

		active.Dec()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		prometheus.RecordHTTPRequest(m, method, route, c.Writer.Status(), time.Since(start))
	}
}

//Personal.AI order the ending
