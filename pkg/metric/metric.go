// Package metric exposes refresh instrumentation through Prometheus.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements refresh.Metrics using Prometheus collectors.
type Recorder struct {
	refreshes     *prometheus.CounterVec
	failures      *prometheus.CounterVec
	skips         *prometheus.CounterVec
	staleDrops    *prometheus.CounterVec
	inFlight      prometheus.Gauge
	fetchDuration *prometheus.HistogramVec
}

// NewRecorder creates a Prometheus recorder registered on the default
// registry.
func NewRecorder() *Recorder {
	return &Recorder{
		refreshes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vantage_refresh_total",
				Help: "Total number of analysis refreshes started",
			},
			[]string{"symbol", "trigger"},
		),
		failures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vantage_refresh_failures_total",
				Help: "Total number of refreshes that failed and were swallowed",
			},
			[]string{"symbol"},
		),
		skips: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vantage_refresh_skips_total",
				Help: "Total number of scheduled refreshes skipped while a fetch was in flight",
			},
			[]string{"symbol"},
		),
		staleDrops: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vantage_refresh_stale_drops_total",
				Help: "Total number of refresh results dropped because the session moved on",
			},
			[]string{"symbol"},
		),
		inFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "vantage_refresh_in_flight",
				Help: "Whether an analysis fetch is currently in flight",
			},
		),
		fetchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vantage_fetch_duration_seconds",
				Help:    "Duration of analysis API fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"symbol"},
		),
	}
}

// RecordRefresh records a refresh start.
func (r *Recorder) RecordRefresh(symbol, trigger string) {
	r.refreshes.WithLabelValues(symbol, trigger).Inc()
}

// RecordFailure records a swallowed refresh failure.
func (r *Recorder) RecordFailure(symbol string) {
	r.failures.WithLabelValues(symbol).Inc()
}

// RecordSkip records a scheduled tick skipped due to an in-flight fetch.
func (r *Recorder) RecordSkip(symbol string) {
	r.skips.WithLabelValues(symbol).Inc()
}

// RecordStaleDrop records a refresh result discarded as stale.
func (r *Recorder) RecordStaleDrop(symbol string) {
	r.staleDrops.WithLabelValues(symbol).Inc()
}

// SetInFlight sets the in-flight gauge.
func (r *Recorder) SetInFlight(inFlight bool) {
	if inFlight {
		r.inFlight.Set(1)
		return
	}
	r.inFlight.Set(0)
}

// ObserveFetchDuration records the duration of one analysis fetch.
func (r *Recorder) ObserveFetchDuration(symbol string, seconds float64) {
	r.fetchDuration.WithLabelValues(symbol).Observe(seconds)
}
