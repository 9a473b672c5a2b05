package main

import (
	"fmt"
	"log/slog"

	"mercator-hq/usagewatch/pkg/alert"
	"mercator-hq/usagewatch/pkg/config"
	"mercator-hq/usagewatch/pkg/credentials"
	"mercator-hq/usagewatch/pkg/telemetry/logging"
	"mercator-hq/usagewatch/pkg/usage"
)

// newLogger builds the process logger from config.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	lc := cfg.Telemetry.Logging
	return logging.New(logging.Config{
		Level:      lc.Level,
		Format:     lc.Format,
		Redact:     true,
		File:       lc.File,
		MaxSizeMB:  lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAgeDays: lc.MaxAgeDays,
		Compress:   lc.Compress,
	})
}

// newCredentials returns the environment source, followed by the secrets
// directory when one is configured.
func newCredentials(cfg *config.Config, logger *slog.Logger) (credentials.Source, error) {
	sources := []credentials.Source{credentials.NewEnvSource(cfg.Credentials.EnvPrefix)}

	if cfg.Credentials.SecretsDir != "" {
		fileSrc, err := credentials.NewFileSource(cfg.Credentials.SecretsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open secrets directory: %w", err)
		}
		sources = append(sources, fileSrc)
	}

	return credentials.NewChain(logger, sources...), nil
}

// newFetcher routes providers with a usage endpoint to an HTTP fetcher and
// everything else to the stub.
func newFetcher(cfg *config.Config) *usage.Router {
	router := usage.NewRouter(usage.NewStubFetcher(cfg.Fetch.StubMax, nil))

	for _, p := range cfg.Providers {
		if p.UsageURL == "" {
			continue
		}
		router.Route(p.Name, usage.NewHTTPFetcher(usage.Endpoint{
			URL:        p.UsageURL,
			ValuePath:  p.ValuePath,
			AuthHeader: p.AuthHeader,
			AuthScheme: p.AuthScheme,
		}, nil, cfg.Fetch.Timeout))
	}

	return router
}

// newMailer builds the SMTPS mailer.
func newMailer(cfg *config.Config) alert.Mailer {
	return alert.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.Timeout)
}
