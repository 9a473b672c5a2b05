package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/usagewatch/pkg/cli"
	"mercator-hq/usagewatch/pkg/config"
)

// defaultConfigFile is read when present; its absence is not an error.
const defaultConfigFile = "usagewatch.yaml"

// rootOptions holds the global flags shared by every subcommand.
type rootOptions struct {
	cfgFile   string
	output    string
	threshold int64
	dryRun    bool
	logLevel  string
	noColor   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	poll := &pollOptions{}

	cmd := &cobra.Command{
		Use:   "usagewatch",
		Short: "Poll AI provider usage and alert on high consumption",
		Long: `Usagewatch records API usage for a set of AI providers and warns when it
gets high.

Each run:
  - Reads <PROVIDER>_API_KEY for every configured provider
  - Records the provider's usage (0 when no key is set)
  - Writes all values plus a timestamp to the output file
  - Emails one alert per provider above the threshold

Running usagewatch without a subcommand performs one poll, so it can be
dropped into a crontab as is.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				cli.DisableColor()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPoll(cmd, opts, poll)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.cfgFile, "config", "c", defaultConfigFile, "config file path")
	flags.StringVarP(&opts.output, "output", "o", "", "override output file path")
	flags.Int64Var(&opts.threshold, "threshold", config.DefaultThreshold, "override alert threshold")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "log alert emails instead of sending them")
	flags.StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	addPollFlags(cmd, poll)

	cmd.AddCommand(
		newPollCmd(opts),
		newShowCmd(opts),
		newValidateCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

// loadConfig loads configuration and applies flag overrides. An explicit
// --config must exist; the default file is optional.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.LoadConfigWithEnvOverrides(opts.cfgFile)
	} else {
		cfg, err = config.LoadOptional(opts.cfgFile)
	}
	if err != nil {
		return nil, cli.NewConfigError(opts.cfgFile, err.Error())
	}

	if opts.output != "" {
		cfg.Output.Path = opts.output
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Alerts.Threshold = opts.threshold
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.Alerts.DryRun = opts.dryRun
	}
	if opts.logLevel != "" {
		cfg.Telemetry.Logging.Level = opts.logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return nil, cli.NewConfigError("flags", err.Error())
	}

	return cfg, nil
}
