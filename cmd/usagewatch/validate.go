package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/usagewatch/pkg/cli"
	"mercator-hq/usagewatch/pkg/credentials"
	"mercator-hq/usagewatch/pkg/usage"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and report credential presence",
		Long: `Load the configuration exactly as a poll would, then list each provider
with the fetcher it will use and whether its API key is set. Credential
values are never printed.

Examples:
  usagewatch validate
  usagewatch validate --config /etc/usagewatch.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return cli.NewConfigError("telemetry.logging", err.Error())
			}
			defer logger.Shutdown()

			creds, err := newCredentials(cfg, logger.Logger)
			if err != nil {
				return cli.NewConfigError("credentials.secrets_dir", err.Error())
			}

			w := cmd.OutOrStdout()
			ctx := cmd.Context()

			cli.PrintField(w, "Output", cfg.Output.Path)
			cli.PrintField(w, "Threshold", cfg.Alerts.Threshold)
			cli.PrintField(w, "SMTP relay", fmt.Sprintf("%s:%d", cfg.Email.SMTPHost, cfg.Email.SMTPPort))

			fetcher := newFetcher(cfg)
			for _, p := range cfg.ProviderNames() {
				state, err := credentialState(ctx, creds, credentials.APIKeyName(p))
				if err != nil {
					return cli.NewCommandError("validate", err)
				}
				fmt.Fprintf(w, "  %-12s fetcher=%-5s key=%s\n", p, fetcherName(fetcher, p), state)
			}

			for _, name := range []string{credentials.EmailSender, credentials.EmailPassword, credentials.EmailReceiver} {
				state, err := credentialState(ctx, creds, name)
				if err != nil {
					return cli.NewCommandError("validate", err)
				}
				fmt.Fprintf(w, "  %-16s %s\n", name, state)
			}

			fmt.Fprintln(w, cli.StatusColor("ok", "configuration is valid"))
			return nil
		},
	}
}

// credentialState reports "set" or "missing" for a credential name.
func credentialState(ctx context.Context, src credentials.Source, name string) (string, error) {
	_, err := src.Lookup(ctx, name)
	switch {
	case err == nil:
		return cli.StatusColor("ok", "set"), nil
	case errors.Is(err, credentials.ErrNotFound):
		return cli.StatusColor("skipped", "missing"), nil
	default:
		return "", err
	}
}

func fetcherName(router *usage.Router, provider string) string {
	return usage.FetcherName(router.For(provider))
}
