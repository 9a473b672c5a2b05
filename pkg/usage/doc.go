// Package usage collects per-provider usage values and persists them as a
// JSON snapshot.
//
// A run looks up each provider's API key, asks a Fetcher for the current
// usage and assembles a Snapshot:
//
//	collector := usage.NewCollector(providers, creds, fetcher, logger)
//	snap, readings := collector.Collect(ctx)
//	if err := usage.WriteFile("public/usage.json", snap); err != nil {
//		return err
//	}
//
// The written document is a flat JSON object with one integer per provider,
// in configured order, followed by last_updated:
//
//	{
//	  "openai": 900,
//	  "anthropic": 0,
//	  "last_updated": "2025-06-01T12:00:00.123456789+02:00"
//	}
//
// StubFetcher produces random values and is the default for every provider.
// HTTPFetcher reads a value from a configured JSON endpoint using a gjson
// path; Router picks between them per provider.
package usage
