// Package metrics exposes Prometheus collectors for the records store and
// its HTTP surface. Collectors live on a private registry so tests and
// multiple app instances do not collide on the global one.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jpalmerr/olevel/internal/records"
)

// Metrics holds the registered collectors.
type Metrics struct {
	registry   *prometheus.Registry
	changes    *prometheus.CounterVec
	students   prometheus.Gauge
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	rejections *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "olevel",
			Name:      "store_changes_total",
			Help:      "Persisted store mutations by operation.",
		}, []string{"op"}),
		students: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "olevel",
			Name:      "students",
			Help:      "Number of students in the collection.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "olevel",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "olevel",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "olevel",
			Name:      "validation_rejections_total",
			Help:      "Operations rejected by validation, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.changes, m.students, m.requests, m.latency, m.rejections)
	return m
}

// ObserveChange records a persisted store mutation. It matches the
// records.WithChangeHook signature.
func (m *Metrics) ObserveChange(ch records.Change) {
	if ch.Op != records.OpLoad {
		m.changes.WithLabelValues(ch.Op).Inc()
	}
	m.students.Set(float64(ch.Count))
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, d time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.latency.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveRejection records a validation failure.
func (m *Metrics) ObserveRejection(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
