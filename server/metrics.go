package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the Prometheus collectors of the dashboard server.
type Metrics struct {
	registry *prometheus.Registry

	PanelFailures    *prometheus.CounterVec
	RenderDuration   *prometheus.HistogramVec
	CacheRequests    *prometheus.CounterVec
	ForecastFailures prometheus.Counter
}

// NewMetrics registers the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PanelFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sunspots",
			Name:      "panel_failures_total",
			Help:      "Dashboard panels that could not be built, by panel.",
		}, []string{"panel"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sunspots",
			Name:      "render_duration_seconds",
			Help:      "Time to compose and render a figure, by view and format.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"view", "format"}),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sunspots",
			Name:      "cache_requests_total",
			Help:      "Series cache lookups, by result.",
		}, []string{"result"}),
		ForecastFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sunspots",
			Name:      "forecast_failures_total",
			Help:      "Forecast runs that failed to fit or predict.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.PanelFailures,
		m.RenderDuration,
		m.CacheRequests,
		m.ForecastFailures,
	)
	return m
}

// ObserveCache counts a cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
