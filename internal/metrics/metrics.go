package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "psychoreport"

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStale = "stale"
)

// Completion call outcomes.
const (
	CompletionOK        = "ok"
	CompletionHTTPError = "http_error"
	CompletionMalformed = "malformed"
	CompletionTimeout   = "timeout"
	CompletionError     = "error"
)

// Metrics holds the pipeline collectors on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	analysisCache     *prometheus.CounterVec
	completionCalls   *prometheus.CounterVec
	reportDuration    *prometheus.HistogramVec
	adjustmentFailure prometheus.Counter
}

// New creates the collectors and registers them with Go and process metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		analysisCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis_cache",
			Name:      "lookups_total",
			Help:      "AI analysis cache lookups by type and result.",
		}, []string{"type", "result"}),
		completionCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "completions_total",
			Help:      "Completion API calls by phase and outcome.",
		}, []string{"phase", "outcome"}),
		reportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "generation_seconds",
			Help:      "Report generation latency.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"report"}),
		adjustmentFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "adjustment",
			Name:      "failures_total",
			Help:      "Personal adjustment calls that fell back to base scores.",
		}),
	}
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: namespace}),
		m.analysisCache,
		m.completionCalls,
		m.reportDuration,
		m.adjustmentFailure,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) CacheLookup(analysisType, result string) {
	if m == nil {
		return
	}
	m.analysisCache.WithLabelValues(analysisType, result).Inc()
}

func (m *Metrics) Completion(phase, outcome string) {
	if m == nil {
		return
	}
	m.completionCalls.WithLabelValues(phase, outcome).Inc()
}

func (m *Metrics) ObserveReport(report string, d time.Duration) {
	if m == nil {
		return
	}
	m.reportDuration.WithLabelValues(report).Observe(d.Seconds())
}

func (m *Metrics) AdjustmentFailed() {
	if m == nil {
		return
	}
	m.adjustmentFailure.Inc()
}
