package metrics

import "github.com/prometheus/client_golang/prometheus"

// AuthMetrics counts registration and login attempts by outcome.
type AuthMetrics struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
}

// NewAuthMetrics registers the auth collectors on the provided registerer.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	if reg == nil {
		return &AuthMetrics{}
	}
	registrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Generator registrations by outcome.",
	}, []string{"outcome"})
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Generator logins by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(registrations, logins)
	return &AuthMetrics{registrations: registrations, logins: logins}
}

// IncRegistration counts one registration attempt.
func (m *AuthMetrics) IncRegistration(outcome string) {
	if m == nil || m.registrations == nil {
		return
	}
	m.registrations.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncLogin counts one login attempt.
func (m *AuthMetrics) IncLogin(outcome string) {
	if m == nil || m.logins == nil {
		return
	}
	m.logins.WithLabelValues(normalizeLabel(outcome)).Inc()
}
