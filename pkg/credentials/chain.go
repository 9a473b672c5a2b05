package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Chain resolves credentials from several sources in priority order.
//
// The first source returning a value wins. A source reporting ErrNotFound
// falls through to the next one; any other error stops the lookup, so a
// broken secrets mount is reported instead of silently treated as "unset".
type Chain struct {
	sources []Source
	logger  *slog.Logger
}

// NewChain creates a chain over the given sources.
func NewChain(logger *slog.Logger, sources ...Source) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		sources: sources,
		logger:  logger.With("component", "credentials"),
	}
}

// Lookup returns the first value found for name.
func (c *Chain) Lookup(ctx context.Context, name string) (string, error) {
	for _, src := range c.sources {
		value, err := src.Lookup(ctx, name)
		if err == nil {
			c.logger.Debug("credential resolved",
				"source", src.Name(),
				"name", redactName(name),
			)
			return value, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return "", fmt.Errorf("credential source %s: %w", src.Name(), err)
	}

	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Name returns the chain's name.
func (c *Chain) Name() string {
	return "chain"
}

// LookupOptional returns the credential or "" when it is not configured.
// Source failures other than ErrNotFound are still returned.
func LookupOptional(ctx context.Context, src Source, name string) (string, error) {
	value, err := src.Lookup(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return value, err
}
