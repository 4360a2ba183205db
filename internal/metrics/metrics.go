package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "player_stats"

// Metrics holds the service's collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	comparisons  *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	importRuns   *prometheus.CounterVec
	importedRows prometheus.Gauge
}

// New creates and registers every collector
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		comparisons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comparisons_total",
			Help:      "Comparisons by mode and outcome.",
		}, []string{"mode", "outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Player cache lookups by record kind and result.",
		}, []string{"kind", "result"}),
		importRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_runs_total",
			Help:      "Stats import runs by outcome.",
		}, []string{"outcome"}),
		importedRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "career_records",
			Help:      "Career records written by the last successful import.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.comparisons,
		m.cacheLookups,
		m.importRuns,
		m.importedRows,
	)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(route, method, status string, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Comparison outcomes
const (
	OutcomeOK         = "ok"
	OutcomeIncomplete = "incomplete"
	OutcomeError      = "error"
)

// ComparisonDone counts one comparison
func (m *Metrics) ComparisonDone(mode, outcome string) {
	m.comparisons.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) CacheHit(kind string)  { m.cacheLookups.WithLabelValues(kind, "hit").Inc() }
func (m *Metrics) CacheMiss(kind string) { m.cacheLookups.WithLabelValues(kind, "miss").Inc() }

// ImportDone counts an import run; records is only applied on success
func (m *Metrics) ImportDone(err error, records int) {
	if err != nil {
		m.importRuns.WithLabelValues(OutcomeError).Inc()
		return
	}
	m.importRuns.WithLabelValues(OutcomeOK).Inc()
	m.importedRows.Set(float64(records))
}
