package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "ecoleta"

// Set bundles every collector the API exposes.
type Set struct {
	HTTP   *HTTPMetrics
	Auth   *AuthMetrics
	Lookup *LookupMetrics
}

// NewSet registers all collectors on reg. A nil registerer yields no-op metrics.
func NewSet(reg prometheus.Registerer) *Set {
	return &Set{
		HTTP:   NewHTTPMetrics(reg),
		Auth:   NewAuthMetrics(reg),
		Lookup: NewLookupMetrics(reg),
	}
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
