package usage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const maxResponseBytes = 1 << 20

// Endpoint describes where a provider's usage can be read.
//
// There is no built-in knowledge of any vendor's API: the URL and the gjson
// path of the usage number are supplied by configuration.
type Endpoint struct {
	URL        string
	ValuePath  string
	AuthHeader string
	AuthScheme string
}

// FetchError reports a failed usage request.
type FetchError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 && e.Err == nil {
		return fmt.Sprintf("usage request for %s failed: status %d", e.Provider, e.StatusCode)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("usage request for %s failed: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("usage request for %s failed: %v", e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// HTTPFetcher reads a usage number from a JSON endpoint.
type HTTPFetcher struct {
	endpoint Endpoint
	client   *http.Client
}

// NewHTTPFetcher creates a fetcher for one endpoint. A nil client gets a
// default client with the given timeout.
func NewHTTPFetcher(endpoint Endpoint, client *http.Client, timeout time.Duration) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPFetcher{
		endpoint: endpoint,
		client:   client,
	}
}

// FetchUsage performs a GET against the endpoint and extracts the value at
// the configured path.
func (f *HTTPFetcher) FetchUsage(ctx context.Context, provider, apiKey string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint.URL, nil)
	if err != nil {
		return 0, &FetchError{Provider: provider, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if f.endpoint.AuthHeader != "" && apiKey != "" {
		value := apiKey
		if f.endpoint.AuthScheme != "" {
			value = f.endpoint.AuthScheme + " " + apiKey
		}
		req.Header.Set(f.endpoint.AuthHeader, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, &FetchError{Provider: provider, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, &FetchError{Provider: provider, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &FetchError{Provider: provider, StatusCode: resp.StatusCode}
	}

	value, err := extractUsage(body, f.endpoint.ValuePath)
	if err != nil {
		return 0, &FetchError{Provider: provider, StatusCode: resp.StatusCode, Err: err}
	}
	return value, nil
}

// Name returns the fetcher name.
func (f *HTTPFetcher) Name() string {
	return "http"
}

// extractUsage reads a non-negative integer at path. Numeric strings are
// accepted; fractional values are truncated.
func extractUsage(body []byte, path string) (int64, error) {
	if !gjson.ValidBytes(body) {
		return 0, fmt.Errorf("response is not valid JSON")
	}

	res := gjson.GetBytes(body, path)
	if !res.Exists() {
		return 0, fmt.Errorf("path %q not found in response", path)
	}

	var value float64
	switch res.Type {
	case gjson.Number:
		value = res.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(res.Str), 64)
		if err != nil {
			return 0, fmt.Errorf("value at %q is not numeric: %q", path, res.Str)
		}
		value = f
	default:
		return 0, fmt.Errorf("value at %q is not numeric: %s", path, res.Raw)
	}

	if value < 0 {
		return 0, fmt.Errorf("value at %q is negative: %v", path, value)
	}
	return int64(value), nil
}
