package usage

import (
	"context"
	"fmt"
	"math/rand/v2"
)

// Fetcher retrieves the current usage count for a provider.
//
// Implementations must return a non-negative value or an error. Errors are
// never fatal to a run: the collector maps them to a zero reading.
type Fetcher interface {
	FetchUsage(ctx context.Context, provider, apiKey string) (int64, error)
}

// Named is implemented by fetchers that report a short name for logs.
type Named interface {
	Name() string
}

// FetcherName returns the fetcher's name, or its type when unnamed.
func FetcherName(f Fetcher) string {
	if n, ok := f.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", f)
}

// StubFetcher stands in for provider APIs whose usage contracts are not
// known. It returns a uniformly random value in [0, Max].
type StubFetcher struct {
	Max int64
	rng *rand.Rand
}

// NewStubFetcher creates a stub fetcher. A nil source uses a randomly
// seeded generator.
func NewStubFetcher(max int64, src rand.Source) *StubFetcher {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &StubFetcher{
		Max: max,
		rng: rand.New(src),
	}
}

// FetchUsage returns a random usage value.
func (f *StubFetcher) FetchUsage(ctx context.Context, provider, apiKey string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if f.Max <= 0 {
		return 0, nil
	}
	return f.rng.Int64N(f.Max + 1), nil
}

// Name returns the fetcher name.
func (f *StubFetcher) Name() string {
	return "stub"
}

// Router dispatches to a per-provider fetcher, falling back to a default.
type Router struct {
	routes   map[string]Fetcher
	fallback Fetcher
}

// NewRouter creates a router with the given fallback fetcher.
func NewRouter(fallback Fetcher) *Router {
	return &Router{
		routes:   make(map[string]Fetcher),
		fallback: fallback,
	}
}

// Route registers a fetcher for a provider.
func (r *Router) Route(provider string, f Fetcher) {
	r.routes[provider] = f
}

// For returns the fetcher used for a provider.
func (r *Router) For(provider string) Fetcher {
	if f, ok := r.routes[provider]; ok {
		return f
	}
	return r.fallback
}

// FetchUsage delegates to the provider's fetcher.
func (r *Router) FetchUsage(ctx context.Context, provider, apiKey string) (int64, error) {
	f := r.For(provider)
	if f == nil {
		return 0, fmt.Errorf("no fetcher configured for provider %q", provider)
	}
	return f.FetchUsage(ctx, provider, apiKey)
}
