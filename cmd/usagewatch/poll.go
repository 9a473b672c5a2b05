package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mercator-hq/usagewatch/pkg/cli"
	"mercator-hq/usagewatch/pkg/poller"
	"mercator-hq/usagewatch/pkg/publish"
	"mercator-hq/usagewatch/pkg/telemetry/metrics"
)

// pollOptions holds the flags that only affect poll output.
type pollOptions struct {
	format string
	quiet  bool
}

func addPollFlags(cmd *cobra.Command, opts *pollOptions) {
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "summary format: text, json")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print a summary")
}

func newPollCmd(root *rootOptions) *cobra.Command {
	opts := &pollOptions{}

	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Run one usage poll",
		Long: `Run one usage poll: collect usage for every provider, write the output
file and send alert emails. This is what a bare usagewatch invocation does.

Examples:
  # Poll with defaults
  usagewatch poll

  # Write somewhere else and alert above 500
  usagewatch poll --output /srv/www/usage.json --threshold 500

  # Log alerts instead of mailing them
  usagewatch poll --dry-run --log-level debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPoll(cmd, root, opts)
		},
	}

	addPollFlags(cmd, opts)
	return cmd
}

func runPoll(cmd *cobra.Command, root *rootOptions, opts *pollOptions) error {
	format, err := cli.ParseOutputFormat(opts.format)
	if err != nil {
		return err
	}

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

	deps := poller.Dependencies{
		Providers:   cfg.ProviderNames(),
		Credentials: creds,
		Fetcher:     newFetcher(cfg),
		Mailer:      newMailer(cfg),
		Metrics:     metrics.NewCollector(nil),
		Logger:      logger.Logger,
	}

	if cfg.Publish.Redis.Enabled {
		pub, err := publish.NewRedisPublisher(publish.RedisConfig{
			URL:     cfg.Publish.Redis.URL,
			Channel: cfg.Publish.Redis.Channel,
			Timeout: cfg.Publish.Redis.Timeout,
		})
		if err != nil {
			return cli.NewConfigError("publish.redis.url", err.Error())
		}
		defer pub.Close()
		deps.Publisher = pub
	}

	job := poller.NewJob(poller.Settings{
		OutputPath:  cfg.Output.Path,
		Threshold:   cfg.Alerts.Threshold,
		DryRun:      cfg.Alerts.DryRun,
		MetricsPath: cfg.Telemetry.Metrics.TextfilePath,
	}, deps)

	ctx, stop := cli.SetupSignalHandlerFrom(cmd.Context())
	defer stop()

	report, err := job.Run(ctx)
	if err != nil {
		return cli.NewCommandError("poll", err)
	}

	if opts.quiet {
		return nil
	}
	return printReport(cmd.OutOrStdout(), report, format)
}

func printReport(w io.Writer, report *poller.Report, format cli.OutputFormat) error {
	summary := report.Summary()

	if format == cli.FormatJSON {
		formatter := &cli.JSONFormatter{Indent: true}
		return formatter.FormatTo(w, summary)
	}

	rows := make([]cli.UsageRow, 0, len(summary.Providers))
	for _, p := range summary.Providers {
		row := cli.UsageRow{Provider: p.Provider, Usage: p.Usage}
		switch {
		case p.Error != "":
			row.Note = "fetch failed"
		case !p.KeyConfigured:
			row.Note = "no API key"
		}
		rows = append(rows, row)
	}

	cli.PrintField(w, "Run", summary.RunID)
	cli.PrintField(w, "Output", summary.OutputPath)
	if err := cli.PrintUsageTable(w, rows, summary.Threshold); err != nil {
		return err
	}

	for _, n := range summary.Notifications {
		line := fmt.Sprintf("alert %s: %s", n.Provider, n.Outcome)
		if n.Reason != "" {
			line += " (" + n.Reason + ")"
		}
		fmt.Fprintln(w, cli.StatusColor(n.Outcome, line))
	}
	return nil
}
