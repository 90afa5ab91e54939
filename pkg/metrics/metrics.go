package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	AuthFailuresTotal      *prometheus.CounterVec
	ValidationFailures     *prometheus.CounterVec
	RateLimitedTotal       prometheus.Counter
	ResourceMutationsTotal *prometheus.CounterVec

	CorruptedRowsSkipped prometheus.Counter

	AuditEntriesTotal  prometheus.Counter
	AuditBufferDropped prometheus.Counter
}

// latencyBuckets spans 5ms to 5s.
var latencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// builder stamps the namespace onto every collector it creates.
type builder struct {
	f  promauto.Factory
	ns string
}

func (b builder) counter(sub, name, help string) prometheus.Counter {
	return b.f.NewCounter(prometheus.CounterOpts{Namespace: b.ns, Subsystem: sub, Name: name, Help: help})
}

func (b builder) counterVec(sub, name, help string, labels ...string) *prometheus.CounterVec {
	return b.f.NewCounterVec(prometheus.CounterOpts{Namespace: b.ns, Subsystem: sub, Name: name, Help: help}, labels)
}

// NewCollector registers all collectors on reg. Passing a fresh registry
// keeps tests isolated from each other.
func NewCollector(namespace string, reg *prometheus.Registry) *Collector {
	b := builder{f: promauto.With(reg), ns: namespace}
	httpLabels := []string{"method", "path", "status"}

	return &Collector{
		registry: reg,

		RequestsTotal: b.counterVec("http", "requests_total",
			"Total number of HTTP requests by method, route, and status code.", httpLabels...),
		RequestDuration: b.f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   latencyBuckets,
		}, httpLabels),
		InFlightGauge: b.f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Requests currently being served.",
		}),
		RateLimitedTotal: b.counter("http", "rate_limited_total",
			"Requests rejected by the per-client rate limiter."),

		AuthFailuresTotal: b.counterVec("auth", "failures_total",
			"Rejected bearer credentials by reason.", "reason"),
		ValidationFailures: b.counterVec("validation", "failures_total",
			"Rejected payloads by resource and error code.", "resource", "code"),

		ResourceMutationsTotal: b.counterVec("store", "mutations_total",
			"Successful create, update and delete operations by resource.", "resource", "action"),
		CorruptedRowsSkipped: b.counter("store", "corrupted_rows_skipped_total",
			"Persisted rows skipped on read because they failed to parse."),

		AuditEntriesTotal: b.counter("audit", "entries_total",
			"Audit entries written to the store."),
		AuditBufferDropped: b.counter("audit", "buffer_dropped_total",
			"Audit entries dropped because the queue was full or closed."),
	}
}

// RegisterRuntime adds the Go runtime and process collectors.
func (c *Collector) RegisterRuntime() {
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
