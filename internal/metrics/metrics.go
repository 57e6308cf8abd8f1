package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics. Each instance owns its
// registry so tests can build as many as they like.
type Metrics struct {
	Registry        *prometheus.Registry
	CacheOps        *prometheus.CounterVec
	BulkItems       *prometheus.CounterVec
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		CacheOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_operations_total",
				Help: "Cache lookups and evictions by cache and result",
			},
			[]string{"cache", "result"},
		),
		BulkItems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bulk_items_total",
				Help: "Items processed by bulk operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
	reg.MustRegister(m.CacheOps, m.BulkItems, m.RequestsTotal, m.RequestDuration)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// CacheObserver returns a cache.Observer counting traffic for the named cache.
func (m *Metrics) CacheObserver(name string) *CacheObserver {
	return &CacheObserver{
		hit:   m.CacheOps.WithLabelValues(name, "hit"),
		miss:  m.CacheOps.WithLabelValues(name, "miss"),
		evict: m.CacheOps.WithLabelValues(name, "evict"),
	}
}

type CacheObserver struct {
	hit, miss, evict prometheus.Counter
}

func (o *CacheObserver) Hit()   { o.hit.Inc() }
func (o *CacheObserver) Miss()  { o.miss.Inc() }
func (o *CacheObserver) Evict() { o.evict.Inc() }

// RecordBulk adds the outcome counts of one bulk operation.
func (m *Metrics) RecordBulk(operation string, succeeded, failed int) {
	m.BulkItems.WithLabelValues(operation, "success").Add(float64(succeeded))
	m.BulkItems.WithLabelValues(operation, "failure").Add(float64(failed))
}
