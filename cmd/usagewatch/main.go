// Usagewatch polls API usage for a set of AI providers, writes the numbers
// to a JSON file for a static dashboard and emails an alert for every
// provider above the usage threshold.
//
// It is meant to be started by cron and exits after one run.
//
// Usage:
//
//	# One poll with defaults (public/usage.json, threshold 800)
//	usagewatch
//
//	# Same, with a config file and a lower threshold
//	usagewatch poll --config /etc/usagewatch.yaml --threshold 500
//
//	# Show the last snapshot
//	usagewatch show
//
//	# Check configuration and which credentials are present
//	usagewatch validate
package main

func main() {
	Execute()
}
