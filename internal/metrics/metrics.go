// Package metrics records briefing request telemetry with Prometheus.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "briefly"

// Request outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded" // at least one fetch failed, synthesis succeeded
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
)

// Metrics holds the collectors for one registry.
type Metrics struct {
	requests        *prometheus.CounterVec
	duration        prometheus.Histogram
	fetches         *prometheus.CounterVec
	classifications *prometheus.CounterVec
	synthFailures   prometheus.Counter
}

// New creates the collectors and registers them with reg. A nil reg uses
// a fresh private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Briefing requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "End-to-end briefing latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Data-source fetches by source and step status.",
		}, []string{"source", "status"}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classification_flags_total",
			Help:      "Classification flags set to true, by source.",
		}, []string{"source"}),
		synthFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthesis_failures_total",
			Help:      "Synthesis calls that failed.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.fetches, m.classifications, m.synthFailures)
	return m
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
}

// ObserveFetch records one fetch step.
func (m *Metrics) ObserveFetch(source, status string) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(source, status).Inc()
}

// ObserveClassification records a source the coordinator selected.
func (m *Metrics) ObserveClassification(source string) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(source).Inc()
}

// ObserveSynthesisFailure records a failed synthesis.
func (m *Metrics) ObserveSynthesisFailure() {
	if m == nil {
		return
	}
	m.synthFailures.Inc()
}
