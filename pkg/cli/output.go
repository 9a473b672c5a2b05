package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is a colored table (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --format flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", NewConfigError("format", fmt.Sprintf("unknown output format %q (must be text or json)", s))
	}
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// Format converts data to JSON format.
func (f *JSONFormatter) Format(data interface{}) ([]byte, error) {
	if f.Indent {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	goodColor   = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	badColor    = color.New(color.FgRed, color.Bold)
)

// DisableColor turns off ANSI colors for all output.
func DisableColor() {
	color.NoColor = true
}

// UsageRow is one line of the usage table.
type UsageRow struct {
	Provider string
	Usage    int64
	Note     string
}

// PrintUsageTable writes a provider usage table. Rows above threshold are
// highlighted; rows with a note are flagged as warnings.
func PrintUsageTable(w io.Writer, rows []UsageRow, threshold int64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	headerColor.Fprintf(tw, "PROVIDER\tUSAGE\tSTATUS\n")
	for _, row := range rows {
		var status string
		switch {
		case row.Usage > threshold:
			status = badColor.Sprintf("over %d", threshold)
		case row.Note != "":
			status = warnColor.Sprint(row.Note)
		default:
			status = goodColor.Sprint("ok")
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", row.Provider, row.Usage, status)
	}

	return tw.Flush()
}

// PrintField writes a "label: value" line with a colored label.
func PrintField(w io.Writer, label string, value interface{}) {
	fmt.Fprintf(w, "%s %v\n", headerColor.Sprintf("%s:", label), value)
}

// StatusColor returns value colored by a sent/skipped/failed style outcome.
func StatusColor(outcome, value string) string {
	switch outcome {
	case "sent", "ok":
		return goodColor.Sprint(value)
	case "skipped":
		return warnColor.Sprint(value)
	default:
		return badColor.Sprint(value)
	}
}
