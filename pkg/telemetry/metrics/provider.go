package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics tracks per-provider fetch results.
//
// Metrics:
//   - usagewatch_provider_usage: Last recorded usage value
//   - usagewatch_provider_key_configured: Whether an API key was found (1/0)
//   - usagewatch_provider_fetch_duration_seconds: Time spent fetching usage
//   - usagewatch_provider_fetch_errors_total: Failed fetches
type ProviderMetrics struct {
	usage         *prometheus.GaugeVec
	keyConfigured *prometheus.GaugeVec
	fetchDuration *prometheus.HistogramVec
	fetchErrors   *prometheus.CounterVec
}

// NewProviderMetrics creates and registers provider metrics with the provided registry.
func NewProviderMetrics(registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		usage: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: "provider",
				Name:      "usage",
				Help:      "Last recorded usage value per provider",
			},
			[]string{"provider"},
		),

		keyConfigured: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: "provider",
				Name:      "key_configured",
				Help:      "Whether an API key was found for the provider (1=yes, 0=no)",
			},
			[]string{"provider"},
		),

		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "provider",
				Name:      "fetch_duration_seconds",
				Help:      "Time spent fetching provider usage in seconds",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"provider"},
		),

		fetchErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "provider",
				Name:      "fetch_errors_total",
				Help:      "Total number of failed usage fetches",
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(
		pm.usage,
		pm.keyConfigured,
		pm.fetchDuration,
		pm.fetchErrors,
	)

	return pm
}
