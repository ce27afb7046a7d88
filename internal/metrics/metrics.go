package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "git_analyzer"

// Aggregation results
const (
	ResultOK            = "ok"
	ResultInvalid       = "invalid"
	ResultNotRepository = "not_a_repository"
	ResultIOError       = "io_error"
	ResultCanceled      = "canceled"
)

// Metrics holds the collectors of the dashboard, registered on their own registry
type Metrics struct {
	registry            *prometheus.Registry
	aggregations        *prometheus.CounterVec
	aggregationDuration prometheus.Histogram
	httpRequests        *prometheus.CounterVec
	activeSessions      prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		aggregations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregations_total",
			Help:      "Report aggregations by result.",
		}, []string{"result"}),
		aggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregation_duration_seconds",
			Help:      "Time spent building a report.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions holding an open repository.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.aggregations,
		m.aggregationDuration,
		m.httpRequests,
		m.activeSessions,
	)
	return m
}

// Registry exposes the registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveAggregation(result string, elapsed time.Duration) {
	m.aggregations.WithLabelValues(result).Inc()
	if result == ResultOK {
		m.aggregationDuration.Observe(elapsed.Seconds())
	}
}

func (m *Metrics) ObserveRequest(route, method, status string) {
	m.httpRequests.WithLabelValues(route, method, status).Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}
