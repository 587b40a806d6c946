// Package overpass provides a client for the Overpass spatial query API:
// query construction from a business taxonomy and fetch with typed error
// mapping.
package overpass

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultURL is the public Overpass interpreter endpoint.
const DefaultURL = "http://overpass-api.de/api/interpreter"

// Typed errors callers distinguish with errors.Is.
var (
	// ErrInvalidRadius means the radius precondition (> 0) was violated.
	ErrInvalidRadius = eris.New("overpass: radius must be positive")
	// ErrServiceOverloaded means the service returned a 5xx; retry later.
	ErrServiceOverloaded = eris.New("overpass: service overloaded")
	// ErrBadRequest means the service rejected the query; not retryable.
	ErrBadRequest = eris.New("overpass: bad request")
	// ErrNetwork means the request never got an HTTP response.
	ErrNetwork = eris.New("overpass: network error")
)

// Point is a coordinate pair as returned by the provider.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Element is one raw entity from the provider. Nodes carry Lat/Lon directly;
// ways and relations carry a representative Center when requested.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Tags   map[string]string `json:"tags"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Point            `json:"center,omitempty"`
}

// Client fetches raw entities for an Overpass QL query.
type Client interface {
	// Fetch runs the query and returns the raw elements. An empty element
	// list is a valid non-error outcome.
	Fetch(ctx context.Context, query string) ([]Element, error)
}

// Option configures the client.
type Option func(*client)

// WithBaseURL overrides the interpreter endpoint.
func WithBaseURL(u string) Option {
	return func(c *client) { c.baseURL = u }
}

// WithUserAgent sets the identifying User-Agent header. Overpass rejects or
// deprioritizes unidentified clients.
func WithUserAgent(ua string) Option {
	return func(c *client) { c.userAgent = ua }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) { c.httpClient = hc }
}

// WithRateLimit sets the requests-per-second limit toward the provider.
func WithRateLimit(rps float64) Option {
	return func(c *client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient creates an Overpass client with the given options. The default
// HTTP timeout is deliberately longer than the 25s server-side query timeout
// embedded in built queries.
func NewClient(opts ...Option) Client {
	c := &client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    DefaultURL,
		userAgent:  "poi-cli/1.0",
		limiter:    rate.NewLimiter(1, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch implements Client. Error mapping: transport failure -> ErrNetwork,
// status >= 500 -> ErrServiceOverloaded, other non-2xx -> ErrBadRequest.
// No internal retries; retry policy belongs to the caller.
func (c *client) Fetch(ctx context.Context, query string) ([]Element, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "overpass: rate limit")
	}

	params := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "overpass: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrapf(ErrNetwork, "%v", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode >= 500:
		return nil, eris.Wrapf(ErrServiceOverloaded, "status %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, eris.Wrapf(ErrBadRequest, "status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(ErrNetwork, "read body: %v", err)
	}

	var parsed struct {
		Elements []Element `json:"elements"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrap(err, "overpass: parse response")
	}

	zap.L().Debug("overpass fetch complete",
		zap.Int("elements", len(parsed.Elements)),
		zap.Int("query_bytes", len(query)),
	)
	return parsed.Elements, nil
}
