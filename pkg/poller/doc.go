// Package poller runs one usage poll end to end.
//
// A run is strictly sequential:
//
//  1. Resolve each provider's API key and fetch its usage (missing key or
//     failed fetch records 0).
//  2. Write the snapshot file, replacing any previous one. A write failure
//     ends the run with an error.
//  3. Publish the snapshot event, if a publisher is configured.
//  4. Email one alert per provider strictly above the threshold.
//
// Every log line of a run carries the same run_id.
package poller
