// Package metrics exposes the service's Prometheus collectors on a
// dedicated registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"
	"trip-planner-service/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	// HTTPRequests counts requests by method, route pattern and status.
	HTTPRequests *prometheus.CounterVec
	// HTTPDuration records request durations in seconds.
	HTTPDuration *prometheus.HistogramVec
	// RouteEstimates counts successful route estimates by transport mode.
	RouteEstimates *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
			[]string{"method", "path", "status"},
		),
		RouteEstimates: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "route_estimates_total", Help: "Route estimates computed, by transport mode."},
			[]string{"mode"},
		),
	}
	m.Registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.RouteEstimates,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method, path string, status int, dur time.Duration) {
	code := strconv.Itoa(status)
	m.HTTPRequests.WithLabelValues(method, path, code).Inc()
	m.HTTPDuration.WithLabelValues(method, path, code).Observe(dur.Seconds())
}

func (m *Metrics) ObserveEstimate(mode domain.TransportMode) {
	m.RouteEstimates.WithLabelValues(mode.String()).Inc()
}
