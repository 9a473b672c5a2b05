// Package config provides configuration management for usagewatch.
//
// This package handles loading, validating, and defaulting configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in three ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("usagewatch.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("usagewatch.yaml")
//
//  3. From an optional file, falling back to defaults when it is missing:
//     cfg, err := config.LoadOptional("usagewatch.yaml")
//
// The job is usually started bare from cron, so LoadOptional is what the
// command line uses unless --config is given explicitly.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention USAGEWATCH_SECTION_FIELD.
// For example:
//
//   - USAGEWATCH_OUTPUT_PATH overrides output.path
//   - USAGEWATCH_ALERTS_THRESHOLD overrides alerts.threshold
//   - USAGEWATCH_PROVIDERS replaces the provider list ("openai,anthropic")
//   - USAGEWATCH_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Credentials (OPENAI_API_KEY, EMAIL_SENDER, ...) are not configuration;
// they are resolved at run time by package credentials.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example
//
//	providers:
//	  - name: openai
//	  - name: anthropic
//	  - name: internal-gateway
//	    usage_url: "https://gateway.internal/v1/usage"
//	    value_path: "data.total_requests"
//
//	output:
//	  path: "public/usage.json"
//
//	alerts:
//	  threshold: 800
//
//	email:
//	  smtp_host: "smtp.gmail.com"
//	  smtp_port: 465
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    file: "/var/log/usagewatch/usagewatch.log"
//	  metrics:
//	    textfile_path: "/var/lib/node_exporter/usagewatch.prom"
package config
