package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the engine's prometheus instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	SearchDuration   *prometheus.HistogramVec
	InflightRequests prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "optiroute_requests_total",
			Help: "route computation requests by outcome",
		}, []string{"outcome"}),
		SearchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "optiroute_search_duration_seconds",
			Help:    "per-strategy search duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"strategy"}),
		InflightRequests: factory.NewGauge(prometheus.GaugeOpts{
			Name: "optiroute_inflight_requests",
			Help: "requests currently being served",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
