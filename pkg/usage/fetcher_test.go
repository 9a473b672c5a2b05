package usage

import (
	"context"
	"math/rand/v2"
	"testing"
)

func TestStubFetcher_Range(t *testing.T) {
	f := NewStubFetcher(1000, rand.NewPCG(1, 2))

	for i := 0; i < 500; i++ {
		v, err := f.FetchUsage(context.Background(), "openai", "sk-test")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v < 0 || v > 1000 {
			t.Fatalf("value %d outside [0, 1000]", v)
		}
	}
}

func TestStubFetcher_Deterministic(t *testing.T) {
	a := NewStubFetcher(1000, rand.NewPCG(7, 7))
	b := NewStubFetcher(1000, rand.NewPCG(7, 7))

	for i := 0; i < 10; i++ {
		va, _ := a.FetchUsage(context.Background(), "p", "k")
		vb, _ := b.FetchUsage(context.Background(), "p", "k")
		if va != vb {
			t.Fatalf("same seed produced %d and %d", va, vb)
		}
	}
}

func TestStubFetcher_ZeroMax(t *testing.T) {
	f := NewStubFetcher(0, nil)
	v, err := f.FetchUsage(context.Background(), "p", "k")
	if err != nil || v != 0 {
		t.Errorf("FetchUsage = %d, %v; want 0, nil", v, err)
	}
}

func TestStubFetcher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewStubFetcher(10, nil).FetchUsage(ctx, "p", "k"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

type constFetcher struct {
	value int64
}

func (f constFetcher) FetchUsage(ctx context.Context, provider, apiKey string) (int64, error) {
	return f.value, nil
}

func TestRouter(t *testing.T) {
	r := NewRouter(constFetcher{value: 1})
	r.Route("gateway", constFetcher{value: 2})

	if v, _ := r.FetchUsage(context.Background(), "openai", "k"); v != 1 {
		t.Errorf("fallback returned %d, want 1", v)
	}
	if v, _ := r.FetchUsage(context.Background(), "gateway", "k"); v != 2 {
		t.Errorf("route returned %d, want 2", v)
	}

	empty := NewRouter(nil)
	if _, err := empty.FetchUsage(context.Background(), "openai", "k"); err == nil {
		t.Error("expected error without fallback")
	}
}

func TestFetcherName(t *testing.T) {
	if got := FetcherName(NewStubFetcher(1, nil)); got != "stub" {
		t.Errorf("FetcherName(stub) = %q", got)
	}
	if got := FetcherName(constFetcher{}); got != "usage.constFetcher" {
		t.Errorf("FetcherName(constFetcher) = %q", got)
	}
}
