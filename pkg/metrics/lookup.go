package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LookupMetrics tracks postal code lookups against the external provider.
type LookupMetrics struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewLookupMetrics registers the lookup collectors on the provided registerer.
func NewLookupMetrics(reg prometheus.Registerer) *LookupMetrics {
	if reg == nil {
		return &LookupMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cep_lookup_attempts_total",
		Help:      "Individual provider requests by result.",
	}, []string{"result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cep_lookup_duration_seconds",
		Help:      "End-to-end lookup duration including retries.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
	}, []string{"outcome"})
	reg.MustRegister(attempts, duration)
	return &LookupMetrics{attempts: attempts, duration: duration}
}

// IncAttempt counts one provider request.
func (m *LookupMetrics) IncAttempt(result string) {
	if m == nil || m.attempts == nil {
		return
	}
	m.attempts.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveLookup records a finished lookup.
func (m *LookupMetrics) ObserveLookup(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}
