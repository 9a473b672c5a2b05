package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention USAGEWATCH_SECTION_FIELD (e.g., USAGEWATCH_OUTPUT_PATH).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	return finishWithEnv(cfg)
}

// LoadOptional behaves like LoadConfigWithEnvOverrides but tolerates a
// missing file: defaults plus environment overrides are used instead.
// The job runs as a bare entry point, so a config file is never required.
func LoadOptional(path string) (*Config, error) {
	if path != "" {
		cfg, err := LoadConfigWithEnvOverrides(path)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return finishWithEnv(Default())
}

func finishWithEnv(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format USAGEWATCH_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("USAGEWATCH_PROVIDERS"); val != "" {
		applyProviderListOverride(cfg, val)
	}

	if val := os.Getenv("USAGEWATCH_FETCH_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Fetch.Timeout = d
		}
	}
	if val := os.Getenv("USAGEWATCH_FETCH_STUB_MAX"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Fetch.StubMax = i
		}
	}

	if val := os.Getenv("USAGEWATCH_OUTPUT_PATH"); val != "" {
		cfg.Output.Path = val
	}

	if val := os.Getenv("USAGEWATCH_ALERTS_THRESHOLD"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Alerts.Threshold = i
		}
	}
	if val := os.Getenv("USAGEWATCH_ALERTS_DRY_RUN"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Alerts.DryRun = b
		}
	}

	if val := os.Getenv("USAGEWATCH_EMAIL_SMTP_HOST"); val != "" {
		cfg.Email.SMTPHost = val
	}
	if val := os.Getenv("USAGEWATCH_EMAIL_SMTP_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Email.SMTPPort = i
		}
	}
	if val := os.Getenv("USAGEWATCH_EMAIL_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Email.Timeout = d
		}
	}

	if val := os.Getenv("USAGEWATCH_CREDENTIALS_ENV_PREFIX"); val != "" {
		cfg.Credentials.EnvPrefix = val
	}
	if val := os.Getenv("USAGEWATCH_CREDENTIALS_SECRETS_DIR"); val != "" {
		cfg.Credentials.SecretsDir = val
	}

	if val := os.Getenv("USAGEWATCH_PUBLISH_REDIS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Publish.Redis.Enabled = b
		}
	}
	if val := os.Getenv("USAGEWATCH_PUBLISH_REDIS_URL"); val != "" {
		cfg.Publish.Redis.URL = val
	}
	if val := os.Getenv("USAGEWATCH_PUBLISH_REDIS_CHANNEL"); val != "" {
		cfg.Publish.Redis.Channel = val
	}

	if val := os.Getenv("USAGEWATCH_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("USAGEWATCH_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("USAGEWATCH_TELEMETRY_LOGGING_FILE"); val != "" {
		cfg.Telemetry.Logging.File = val
	}
	if val := os.Getenv("USAGEWATCH_TELEMETRY_METRICS_TEXTFILE_PATH"); val != "" {
		cfg.Telemetry.Metrics.TextfilePath = val
	}
}

// applyProviderListOverride replaces the provider list with a comma-separated
// list of names. Endpoint settings of providers that remain are preserved.
func applyProviderListOverride(cfg *Config, list string) {
	existing := make(map[string]ProviderConfig, len(cfg.Providers))
	for _, p := range cfg.Providers {
		existing[p.Name] = p
	}

	providers := make([]ProviderConfig, 0)
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if p, ok := existing[name]; ok {
			providers = append(providers, p)
			continue
		}
		providers = append(providers, ProviderConfig{Name: name})
	}

	if len(providers) > 0 {
		cfg.Providers = providers
	}
}
