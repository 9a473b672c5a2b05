package main

import (
	"github.com/spf13/cobra"

	"mercator-hq/usagewatch/pkg/cli"
	"mercator-hq/usagewatch/pkg/usage"
)

func newShowCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the last usage snapshot",
		Long: `Read the output file written by the last poll and print it as a table,
highlighting providers above the alert threshold.

Examples:
  usagewatch show
  usagewatch show --output /srv/www/usage.json --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := cli.ParseOutputFormat(format)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}

			snap, err := usage.ReadFile(cfg.Output.Path)
			if err != nil {
				return cli.NewCommandError("show", err)
			}

			w := cmd.OutOrStdout()
			if outFormat == cli.FormatJSON {
				formatter := &cli.JSONFormatter{Indent: true}
				return formatter.FormatTo(w, snap)
			}

			rows := make([]cli.UsageRow, 0, len(snap.Providers))
			for _, p := range snap.Providers {
				v, _ := snap.Get(p)
				rows = append(rows, cli.UsageRow{Provider: p, Usage: v})
			}

			cli.PrintField(w, "File", cfg.Output.Path)
			cli.PrintField(w, "Last updated", snap.LastUpdated.Format(usage.TimestampLayout))
			return cli.PrintUsageTable(w, rows, cfg.Alerts.Threshold)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json")
	return cmd
}
