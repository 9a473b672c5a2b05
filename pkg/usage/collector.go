package usage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/usagewatch/pkg/credentials"
)

// Collector gathers one usage value per provider.
//
// Providers are processed sequentially. A provider without an API key, or
// whose fetch fails, is recorded as zero; no provider can abort the run.
type Collector struct {
	providers []string
	creds     credentials.Source
	fetcher   Fetcher
	logger    *slog.Logger
	now       func() time.Time
}

// NewCollector creates a collector for the given providers.
func NewCollector(providers []string, creds credentials.Source, fetcher Fetcher, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		providers: append([]string(nil), providers...),
		creds:     creds,
		fetcher:   fetcher,
		logger:    logger.With("component", "usage.collector"),
		now:       time.Now,
	}
}

// Collect polls every provider and returns the snapshot plus per-provider
// readings in provider order.
func (c *Collector) Collect(ctx context.Context) (*Snapshot, []Reading) {
	readings := make([]Reading, 0, len(c.providers))

	for _, provider := range c.providers {
		readings = append(readings, c.collectOne(ctx, provider))
	}

	snap := NewSnapshot(c.providers, c.now())
	for _, r := range readings {
		snap.Set(r.Provider, r.Usage)
	}

	return snap, readings
}

func (c *Collector) collectOne(ctx context.Context, provider string) Reading {
	reading := Reading{Provider: provider}
	keyName := credentials.APIKeyName(provider)

	apiKey, err := c.creds.Lookup(ctx, keyName)
	if err != nil {
		if errors.Is(err, credentials.ErrNotFound) {
			c.logger.Info("no API key found", "provider", provider, "credential", keyName)
		} else {
			reading.Err = fmt.Errorf("resolve %s: %w", keyName, err)
			c.logger.Warn("failed to resolve API key", "provider", provider, "error", err)
		}
		return reading
	}
	reading.KeyConfigured = true

	if r, ok := c.fetcher.(*Router); ok {
		reading.Fetcher = FetcherName(r.For(provider))
	} else {
		reading.Fetcher = FetcherName(c.fetcher)
	}

	c.logger.Debug("fetching usage", "provider", provider, "fetcher", reading.Fetcher)

	start := time.Now()
	value, err := c.fetcher.FetchUsage(ctx, provider, apiKey)
	reading.Duration = time.Since(start)

	if err == nil && value < 0 {
		err = fmt.Errorf("fetcher returned negative usage %d", value)
	}
	if err != nil {
		reading.Err = err
		c.logger.Warn("usage fetch failed, recording zero",
			"provider", provider,
			"error", err,
		)
		return reading
	}

	reading.Usage = value
	c.logger.Info("usage fetched",
		"provider", provider,
		"usage", value,
		"duration", reading.Duration,
	)
	return reading
}
