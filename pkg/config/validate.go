package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "output.path").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// providerNamePattern restricts provider names to characters that map
// cleanly onto environment variable names.
var providerNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// reservedOutputKey is the snapshot timestamp field; no provider may use it.
const reservedOutputKey = "last_updated"

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateProviders(cfg.Providers)...)
	errs = append(errs, validateFetch(&cfg.Fetch)...)
	errs = append(errs, validateOutput(&cfg.Output)...)
	errs = append(errs, validateAlerts(&cfg.Alerts)...)
	errs = append(errs, validateEmail(&cfg.Email)...)
	errs = append(errs, validatePublish(&cfg.Publish)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateProviders validates provider configurations.
func validateProviders(providers []ProviderConfig) []FieldError {
	var errs []FieldError

	if len(providers) == 0 {
		errs = append(errs, FieldError{
			Field:   "providers",
			Message: "at least one provider must be configured",
		})
		return errs
	}

	seen := make(map[string]bool, len(providers))
	for i, provider := range providers {
		prefix := fmt.Sprintf("providers[%d]", i)

		switch {
		case provider.Name == "":
			errs = append(errs, FieldError{
				Field:   prefix + ".name",
				Message: "name is required",
			})
		case provider.Name == reservedOutputKey:
			errs = append(errs, FieldError{
				Field:   prefix + ".name",
				Message: fmt.Sprintf("%q is reserved for the snapshot timestamp", reservedOutputKey),
			})
		case !providerNamePattern.MatchString(provider.Name):
			errs = append(errs, FieldError{
				Field:   prefix + ".name",
				Message: fmt.Sprintf("invalid provider name %q (use lowercase letters, digits, '-' or '_')", provider.Name),
			})
		case seen[provider.Name]:
			errs = append(errs, FieldError{
				Field:   prefix + ".name",
				Message: fmt.Sprintf("duplicate provider %q", provider.Name),
			})
		}
		seen[provider.Name] = true

		if provider.UsageURL == "" {
			if provider.ValuePath != "" {
				errs = append(errs, FieldError{
					Field:   prefix + ".value_path",
					Message: "value_path requires usage_url",
				})
			}
			continue
		}

		u, err := url.Parse(provider.UsageURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".usage_url",
				Message: "usage URL must be an absolute http or https URL",
			})
		}
		if provider.ValuePath == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".value_path",
				Message: "value path is required when usage_url is set",
			})
		}
	}

	return errs
}

// validateFetch validates fetcher settings.
func validateFetch(cfg *FetchConfig) []FieldError {
	var errs []FieldError

	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "fetch.timeout",
			Message: "timeout must be positive",
		})
	}
	if cfg.StubMax < 0 {
		errs = append(errs, FieldError{
			Field:   "fetch.stub_max",
			Message: "stub max must be non-negative",
		})
	}

	return errs
}

// validateOutput validates output configuration.
func validateOutput(cfg *OutputConfig) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(cfg.Path) == "" {
		errs = append(errs, FieldError{
			Field:   "output.path",
			Message: "output path is required",
		})
	}

	return errs
}

// validateAlerts validates alert configuration.
func validateAlerts(cfg *AlertsConfig) []FieldError {
	var errs []FieldError

	if cfg.Threshold < 0 {
		errs = append(errs, FieldError{
			Field:   "alerts.threshold",
			Message: "threshold must be non-negative",
		})
	}

	return errs
}

// validateEmail validates the mail relay configuration.
func validateEmail(cfg *EmailConfig) []FieldError {
	var errs []FieldError

	if cfg.SMTPHost == "" {
		errs = append(errs, FieldError{
			Field:   "email.smtp_host",
			Message: "SMTP host is required",
		})
	}
	if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
		errs = append(errs, FieldError{
			Field:   "email.smtp_port",
			Message: "SMTP port must be between 1 and 65535",
		})
	}
	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "email.timeout",
			Message: "timeout must be positive",
		})
	}

	return errs
}

// validatePublish validates publish sinks.
func validatePublish(cfg *PublishConfig) []FieldError {
	var errs []FieldError

	if !cfg.Redis.Enabled {
		return errs
	}

	if cfg.Redis.URL == "" {
		errs = append(errs, FieldError{
			Field:   "publish.redis.url",
			Message: "redis URL is required when publishing is enabled",
		})
	} else if u, err := url.Parse(cfg.Redis.URL); err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
		errs = append(errs, FieldError{
			Field:   "publish.redis.url",
			Message: "redis URL must use the redis:// or rediss:// scheme",
		})
	}
	if cfg.Redis.Channel == "" {
		errs = append(errs, FieldError{
			Field:   "publish.redis.channel",
			Message: "channel is required",
		})
	}

	return errs
}

// validateTelemetry validates logging and metrics configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be json or text)", cfg.Logging.Format),
		})
	}

	if cfg.Logging.MaxSizeMB < 0 || cfg.Logging.MaxBackups < 0 || cfg.Logging.MaxAgeDays < 0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging",
			Message: "log rotation limits must be non-negative",
		})
	}

	return errs
}
