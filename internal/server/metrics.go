package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	logouts  *prometheus.CounterVec
}

// newMetrics registers the server collectors on a private registry
func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "graphql",
			Name:      "requests_total",
			Help:      "Total GraphQL requests by operation and status.",
		}, []string{"operation", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "graphql",
			Name:      "request_duration_seconds",
			Help:      "GraphQL request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		logouts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "logouts_total",
			Help:      "Total logouts by result (revoked, anonymous).",
		}, []string{"result"}),
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
