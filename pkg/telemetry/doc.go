// Package telemetry groups the observability packages used by the poll job.
//
// # Components
//
//   - logging: slog logger with secret redaction and optional file rotation
//   - metrics: per-run Prometheus metrics written to a textfile
//
// # Secret Protection
//
// With redaction enabled nothing credential-shaped reaches the log sink:
//
//   - API keys: sk-abc123 → ***
//   - Emails: user@example.com → u***@example.com
//   - Attributes named like password, token or api_key → ***
package telemetry
