// Package metrics records Prometheus metrics for a single poll run.
//
// A run lives for seconds, so there is no scrape endpoint. Metrics go into a
// private registry and Collector.WriteTextfile dumps them for the
// node_exporter textfile collector:
//
//	collector := metrics.NewCollector(nil)
//	collector.RecordProvider("openai", 900, true, 120*time.Millisecond, false)
//	collector.RecordNotification("openai", "sent")
//	collector.RecordRun(time.Now(), time.Second, 1, true)
//	err := collector.WriteTextfile("/var/lib/node_exporter/usagewatch.prom")
package metrics
