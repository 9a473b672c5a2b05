package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "usagewatch"

// Collector owns a private registry holding the per-run metrics. The job
// is not long-lived, so nothing is scraped; the registry is flushed to a
// node_exporter textfile at the end of the run.
type Collector struct {
	registry *prometheus.Registry

	providerMetrics *ProviderMetrics
	runMetrics      *RunMetrics
}

// NewCollector creates a collector registered against registry. If registry
// is nil a fresh one is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	return &Collector{
		registry:        registry,
		providerMetrics: NewProviderMetrics(registry),
		runMetrics:      NewRunMetrics(registry),
	}
}

// RecordProvider records the outcome of one provider fetch.
func (c *Collector) RecordProvider(provider string, usage int64, keyConfigured bool, duration time.Duration, failed bool) {
	pm := c.providerMetrics

	pm.usage.WithLabelValues(provider).Set(float64(usage))
	pm.keyConfigured.WithLabelValues(provider).Set(boolToFloat(keyConfigured))
	pm.fetchDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if failed {
		pm.fetchErrors.WithLabelValues(provider).Inc()
	}
}

// RecordNotification counts one notification attempt by outcome.
func (c *Collector) RecordNotification(provider, outcome string) {
	c.runMetrics.notifications.WithLabelValues(provider, outcome).Inc()
}

// RecordRun records run-level results.
func (c *Collector) RecordRun(finished time.Time, duration time.Duration, breaches int, success bool) {
	rm := c.runMetrics

	rm.lastRun.Set(float64(finished.Unix()))
	rm.duration.Set(duration.Seconds())
	rm.breaches.Set(float64(breaches))
	rm.success.Set(boolToFloat(success))
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes every metric in the registry to path in the
// Prometheus text format. The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %q: %w", path, err)
	}
	return nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
