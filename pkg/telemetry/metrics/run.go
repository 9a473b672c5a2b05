package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RunMetrics tracks results of the poll run as a whole.
//
// Metrics:
//   - usagewatch_run_last_timestamp_seconds: Unix time the run finished
//   - usagewatch_run_duration_seconds: Wall time of the run
//   - usagewatch_run_breaches: Providers above threshold
//   - usagewatch_run_success: Whether the snapshot was written (1/0)
//   - usagewatch_notifications_total: Alert emails by provider and outcome
type RunMetrics struct {
	lastRun       prometheus.Gauge
	duration      prometheus.Gauge
	breaches      prometheus.Gauge
	success       prometheus.Gauge
	notifications *prometheus.CounterVec
}

// NewRunMetrics creates and registers run metrics with the provided registry.
func NewRunMetrics(registry *prometheus.Registry) *RunMetrics {
	rm := &RunMetrics{
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "run",
			Name:      "last_timestamp_seconds",
			Help:      "Unix timestamp of the last completed run",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Duration of the last run in seconds",
		}),
		breaches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "run",
			Name:      "breaches",
			Help:      "Number of providers above the alert threshold",
		}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "run",
			Name:      "success",
			Help:      "Whether the last run wrote its snapshot (1=yes, 0=no)",
		}),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "notifications_total",
				Help:      "Total number of alert notifications by outcome",
			},
			[]string{"provider", "outcome"},
		),
	}

	registry.MustRegister(
		rm.lastRun,
		rm.duration,
		rm.breaches,
		rm.success,
		rm.notifications,
	)

	return rm
}
