/*
Package cli provides command-line helpers used by the usagewatch command.

Output Formatting:

Commands print either a colored table or JSON:

	format, err := cli.ParseOutputFormat(flagValue)
	if format == cli.FormatJSON {
		formatter := &cli.JSONFormatter{Indent: true}
		return formatter.FormatTo(os.Stdout, snapshot)
	}
	return cli.PrintUsageTable(os.Stdout, rows, threshold)

Colors follow the terminal and can be turned off with DisableColor.

Signal Handling:

A poll run is cancelled on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
