package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerCallMetrics records outcomes of calls against the ledger provider.
type LedgerCallMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewLedgerCallMetrics registers the ledger call metrics on the provided registerer.
func NewLedgerCallMetrics(reg prometheus.Registerer) *LedgerCallMetrics {
	if reg == nil {
		return &LedgerCallMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_call_duration_seconds",
		Help:    "Duration of ledger provider calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_call_success",
		Help: "Successful ledger provider calls.",
	}, []string{"method"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_call_failure",
		Help: "Failed ledger provider calls.",
	}, []string{"method"})
	reg.MustRegister(duration, success, failure)
	return &LedgerCallMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named method.
func (m *LedgerCallMetrics) ObserveDuration(method string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(method)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named method.
func (m *LedgerCallMetrics) IncSuccess(method string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncFailure increments the failure counter for the named method.
func (m *LedgerCallMetrics) IncFailure(method string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(method)).Inc()
}

func normalizeLabel(method string) string {
	if method == "" {
		return "unknown"
	}
	return method
}
