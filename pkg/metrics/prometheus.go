package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds every Prometheus collector the monitor exposes.
// Record* methods on a nil *Recorder are no-ops.
// ⭐ SSOT: 메트릭 정의는 여기서만
type Recorder struct {
	gatherer prometheus.Gatherer

	fetchesTotal   *prometheus.CounterVec
	fetchDuration  *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
	compositeScore prometheus.Gauge
	componentScore *prometheus.GaugeVec
	alertsTotal    *prometheus.CounterVec
	jobRuns        *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New registers collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		gatherer: reg,
		fetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liquidity_series_fetches_total",
				Help: "Series downloads by series id and outcome",
			},
			[]string{"series", "outcome"},
		),
		fetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "liquidity_series_fetch_duration_seconds",
				Help:    "Duration of series downloads in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liquidity_cache_lookups_total",
				Help: "Series cache lookups by layer and result",
			},
			[]string{"layer", "result"},
		),
		compositeScore: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "liquidity_composite_score",
				Help: "Most recent composite liquidity score",
			},
		),
		componentScore: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "liquidity_component_score",
				Help: "Most recent per-factor score",
			},
			[]string{"component"},
		),
		alertsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liquidity_alerts_total",
				Help: "Alerts raised by type",
			},
			[]string{"type"},
		),
		jobRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liquidity_job_runs_total",
				Help: "Scheduled job runs by job and status",
			},
			[]string{"job", "status"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liquidity_http_requests_total",
				Help: "API requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "liquidity_http_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// RecordFetch records one series download. outcome is "ok", "error" or "cached".
func (r *Recorder) RecordFetch(series, outcome string) {
	if r == nil {
		return
	}
	r.fetchesTotal.WithLabelValues(series, outcome).Inc()
}

// RecordFetchLatency records download latency in seconds
func (r *Recorder) RecordFetchLatency(source string, seconds float64) {
	if r == nil {
		return
	}
	r.fetchDuration.WithLabelValues(source).Observe(seconds)
}

// RecordCacheLookup records a hit or miss on a cache layer ("memory", "redis")
func (r *Recorder) RecordCacheLookup(layer string, hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(layer, result).Inc()
}

// RecordScore publishes the latest composite and per-factor scores
func (r *Recorder) RecordScore(total float64, components map[string]float64) {
	if r == nil {
		return
	}
	r.compositeScore.Set(total)
	for name, v := range components {
		r.componentScore.WithLabelValues(name).Set(v)
	}
}

// RecordAlert counts a raised alert
func (r *Recorder) RecordAlert(kind string) {
	if r == nil {
		return
	}
	r.alertsTotal.WithLabelValues(kind).Inc()
}

// RecordJobRun counts a scheduled job execution
func (r *Recorder) RecordJobRun(job string, success bool) {
	if r == nil {
		return
	}
	status := "success"
	if !success {
		status = "failed"
	}
	r.jobRuns.WithLabelValues(job, status).Inc()
}

// RecordHTTPRequest records an API request
func (r *Recorder) RecordHTTPRequest(route, method, status string, seconds float64) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, method, status).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(seconds)
}
