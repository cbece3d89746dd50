package httpx

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_dashboard_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "order_dashboard_http_request_duration_seconds",
			Help:    "Duration of served HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	apiCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_dashboard_api_calls_total",
			Help: "Outbound calls to the order API",
		},
		[]string{"operation", "status"},
	)
)

func Prometheus() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler serves the default registry.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// RecordAPICall counts one outbound order API call.
func RecordAPICall(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	apiCalls.WithLabelValues(operation, status).Inc()
}
