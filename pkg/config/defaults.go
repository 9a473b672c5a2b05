package config

import "time"

// Default values for configuration fields.
const (
	// Fetch defaults
	DefaultFetchTimeout = 30 * time.Second
	DefaultStubMax      = int64(1000)

	// Provider defaults
	DefaultAuthHeader = "Authorization"
	DefaultAuthScheme = "Bearer"

	// Output defaults
	DefaultOutputPath = "public/usage.json"

	// Alert defaults
	DefaultThreshold = int64(800)

	// Email defaults
	DefaultSMTPHost     = "smtp.gmail.com"
	DefaultSMTPPort     = 465
	DefaultEmailTimeout = 30 * time.Second

	// Publish defaults
	DefaultRedisChannel = "usagewatch:snapshots"
	DefaultRedisTimeout = 5 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel      = "info"
	DefaultLoggingFormat     = "text"
	DefaultLogFileMaxSizeMB  = 10
	DefaultLogFileMaxBackups = 5
	DefaultLogFileMaxAgeDays = 28
)

// DefaultProviders is the provider list used when none is configured.
var DefaultProviders = []string{"openai", "anthropic", "perplexity", "gemini", "huggingface"}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	if len(cfg.Providers) == 0 {
		cfg.Providers = make([]ProviderConfig, 0, len(DefaultProviders))
		for _, name := range DefaultProviders {
			cfg.Providers = append(cfg.Providers, ProviderConfig{Name: name})
		}
	}
	for i := range cfg.Providers {
		p := &cfg.Providers[i]
		if p.UsageURL == "" {
			continue
		}
		if p.AuthHeader == "" {
			p.AuthHeader = DefaultAuthHeader
		}
		if p.AuthScheme == "" {
			p.AuthScheme = DefaultAuthScheme
		}
	}

	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = DefaultFetchTimeout
	}
	if cfg.Fetch.StubMax == 0 {
		cfg.Fetch.StubMax = DefaultStubMax
	}

	if cfg.Output.Path == "" {
		cfg.Output.Path = DefaultOutputPath
	}

	// A zero threshold would alert on every non-zero reading, so zero
	// means "unset" here, as with the other numeric fields.
	if cfg.Alerts.Threshold == 0 {
		cfg.Alerts.Threshold = DefaultThreshold
	}

	if cfg.Email.SMTPHost == "" {
		cfg.Email.SMTPHost = DefaultSMTPHost
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = DefaultSMTPPort
	}
	if cfg.Email.Timeout == 0 {
		cfg.Email.Timeout = DefaultEmailTimeout
	}

	if cfg.Publish.Redis.Channel == "" {
		cfg.Publish.Redis.Channel = DefaultRedisChannel
	}
	if cfg.Publish.Redis.Timeout == 0 {
		cfg.Publish.Redis.Timeout = DefaultRedisTimeout
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Logging.MaxSizeMB == 0 {
		cfg.Telemetry.Logging.MaxSizeMB = DefaultLogFileMaxSizeMB
	}
	if cfg.Telemetry.Logging.MaxBackups == 0 {
		cfg.Telemetry.Logging.MaxBackups = DefaultLogFileMaxBackups
	}
	if cfg.Telemetry.Logging.MaxAgeDays == 0 {
		cfg.Telemetry.Logging.MaxAgeDays = DefaultLogFileMaxAgeDays
	}
}

// Default returns a configuration populated entirely from defaults.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
