package middlewares

import (
	"strconv"
	"time"

	"github.com/admin/cosmic-connect/internal/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics счётчик и гистограмма запросов; path - шаблон маршрута, не сырой URL
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
