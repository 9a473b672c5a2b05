package config

import "time"

// Config is the root configuration structure for usagewatch.
// It describes which providers are polled, where the snapshot is written,
// when alerts fire and how they are delivered.
type Config struct {
	// Providers lists the providers polled on every run, in output order.
	// Default: openai, anthropic, perplexity, gemini, huggingface
	Providers []ProviderConfig `yaml:"providers"`

	// Fetch contains settings shared by all usage fetchers.
	Fetch FetchConfig `yaml:"fetch"`

	// Output controls where the usage snapshot is written.
	Output OutputConfig `yaml:"output"`

	// Alerts contains the threshold and alerting behaviour.
	Alerts AlertsConfig `yaml:"alerts"`

	// Email contains the mail relay used for alert delivery.
	Email EmailConfig `yaml:"email"`

	// Credentials controls where API keys and email credentials are read from.
	Credentials CredentialsConfig `yaml:"credentials"`

	// Publish contains optional sinks that receive each run's snapshot.
	Publish PublishConfig `yaml:"publish"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ProviderConfig describes a single tracked provider.
type ProviderConfig struct {
	// Name is the provider identifier used as the output JSON key and to
	// derive the credential name (e.g. "openai" reads OPENAI_API_KEY).
	Name string `yaml:"name"`

	// UsageURL is an optional endpoint returning the provider's usage as JSON.
	// When empty, usage is produced by the stub fetcher.
	UsageURL string `yaml:"usage_url"`

	// ValuePath is the gjson path of the usage number in the UsageURL response.
	// Required when UsageURL is set.
	ValuePath string `yaml:"value_path"`

	// AuthHeader is the request header carrying the API key.
	// Default: "Authorization"
	AuthHeader string `yaml:"auth_header"`

	// AuthScheme is prepended to the API key in AuthHeader.
	// Default: "Bearer"
	AuthScheme string `yaml:"auth_scheme"`
}

// FetchConfig contains settings shared by all usage fetchers.
type FetchConfig struct {
	// Timeout bounds a single HTTP usage request.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// StubMax is the inclusive upper bound of the stubbed usage value.
	// Default: 1000
	StubMax int64 `yaml:"stub_max"`
}

// OutputConfig controls where the usage snapshot is written.
type OutputConfig struct {
	// Path is the JSON snapshot file. Parent directories are created.
	// Default: "public/usage.json"
	Path string `yaml:"path"`
}

// AlertsConfig contains alerting behaviour.
type AlertsConfig struct {
	// Threshold is the usage value above which an alert is sent.
	// Usage strictly greater than Threshold triggers an alert.
	// Default: 800
	Threshold int64 `yaml:"threshold"`

	// DryRun logs alerts instead of sending them.
	// Default: false
	DryRun bool `yaml:"dry_run"`
}

// EmailConfig describes the outbound mail relay.
// Sender, password and receiver are read through the credentials chain
// (EMAIL_SENDER, EMAIL_PASSWORD, EMAIL_RECEIVER), never from this file.
type EmailConfig struct {
	// SMTPHost is the relay host reached over implicit TLS.
	// Default: "smtp.gmail.com"
	SMTPHost string `yaml:"smtp_host"`

	// SMTPPort is the relay's SMTPS port.
	// Default: 465
	SMTPPort int `yaml:"smtp_port"`

	// Timeout bounds dialing and sending a single message.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// CredentialsConfig controls credential lookup.
type CredentialsConfig struct {
	// EnvPrefix is prepended to every variable name looked up in the
	// environment. Empty by default so OPENAI_API_KEY is read as-is.
	EnvPrefix string `yaml:"env_prefix"`

	// SecretsDir is an optional directory of one-file-per-secret credentials
	// (e.g. a mounted Kubernetes secret). Consulted after the environment.
	SecretsDir string `yaml:"secrets_dir"`
}

// PublishConfig contains optional snapshot sinks.
type PublishConfig struct {
	// Redis publishes each run's snapshot on a Pub/Sub channel.
	Redis RedisPublishConfig `yaml:"redis"`
}

// RedisPublishConfig configures the Redis Pub/Sub publisher.
type RedisPublishConfig struct {
	// Enabled turns publishing on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// URL is a redis:// or rediss:// connection URL.
	URL string `yaml:"url"`

	// Channel is the Pub/Sub channel name.
	// Default: "usagewatch:snapshots"
	Channel string `yaml:"channel"`

	// Timeout bounds the publish call.
	// Default: 5s
	Timeout time.Duration `yaml:"timeout"`
}

// TelemetryConfig contains logging and metrics configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn" or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "text"
	Format string `yaml:"format"`

	// File routes logs to a rotated file instead of stderr.
	File string `yaml:"file"`

	// MaxSizeMB is the size at which the log file is rotated.
	// Default: 10
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept.
	// Default: 5
	MaxBackups int `yaml:"max_backups"`

	// MaxAgeDays is the number of days rotated files are kept.
	// Default: 28
	MaxAgeDays int `yaml:"max_age_days"`

	// Compress gzips rotated files.
	Compress bool `yaml:"compress"`
}

// MetricsConfig configures Prometheus metrics export.
type MetricsConfig struct {
	// TextfilePath is where metrics are written after each run, for the
	// node exporter textfile collector. Empty disables metrics export.
	TextfilePath string `yaml:"textfile_path"`
}

// ProviderNames returns the configured provider names in order.
func (c *Config) ProviderNames() []string {
	names := make([]string, 0, len(c.Providers))
	for _, p := range c.Providers {
		names = append(names, p.Name)
	}
	return names
}
