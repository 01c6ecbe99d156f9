// Package metrics exposes the Prometheus collectors of the ordering backend.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "milano",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "milano",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	ordersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "milano",
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Orders accepted at checkout.",
		},
	)

	statusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "milano",
			Subsystem: "orders",
			Name:      "status_transitions_total",
			Help:      "Order status changes by target status and kind (advance or override).",
		},
		[]string{"status", "kind"},
	)

	newOrderAlerts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "milano",
			Subsystem: "orders",
			Name:      "new_order_alerts_total",
			Help:      "Alerts raised by the new-order watcher.",
		},
	)

	catalogFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "milano",
			Subsystem: "catalog",
			Name:      "fallbacks_total",
			Help:      "Catalog reads served from the built-in demo dataset after a store failure.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		ordersCreated,
		statusTransitions,
		newOrderAlerts,
		catalogFallbacks,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func OrderCreated() { ordersCreated.Inc() }

func StatusChanged(status, kind string) { statusTransitions.WithLabelValues(status, kind).Inc() }

func AlertRaised() { newOrderAlerts.Inc() }

func CatalogFallback() { catalogFallbacks.Inc() }
