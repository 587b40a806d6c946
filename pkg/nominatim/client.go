// Package nominatim provides a client for the Nominatim forward-geocoding
// API, resolving free-text place names to coordinates.
package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// DefaultURL is the public Nominatim search endpoint.
const DefaultURL = "https://nominatim.openstreetmap.org/search"

// ErrNetwork means the geocoding request failed at the transport level or
// the service did not answer with a usable response.
var ErrNetwork = eris.New("nominatim: network error")

// candidate is one entry of the Nominatim JSON response. Coordinates come
// back as strings.
type candidate struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Result is the best-ranked geocoding match. Matched is false when the
// service returned zero candidates; that is not an error.
type Result struct {
	Lat         float64
	Lon         float64
	DisplayName string
	Matched     bool
}

// Client geocodes free-text place names.
type Client interface {
	Geocode(ctx context.Context, query string) (*Result, error)
}

// Option configures the client.
type Option func(*client)

// WithBaseURL overrides the search endpoint.
func WithBaseURL(u string) Option {
	return func(c *client) { c.baseURL = u }
}

// WithUserAgent sets the identifying User-Agent header required by the
// Nominatim usage policy.
func WithUserAgent(ua string) Option {
	return func(c *client) { c.userAgent = ua }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) { c.httpClient = hc }
}

// WithRateLimit sets the requests-per-second limit toward the service.
func WithRateLimit(rps float64) Option {
	return func(c *client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient creates a Nominatim client. The default rate limit follows the
// public instance policy of one request per second.
func NewClient(opts ...Option) Client {
	c := &client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultURL,
		userAgent:  "poi-cli/1.0",
		limiter:    rate.NewLimiter(1, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Geocode implements Client, asking for the single best-ranked match.
func (c *client) Geocode(ctx context.Context, query string) (*Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "nominatim: rate limit")
	}

	params := url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrapf(ErrNetwork, "%v", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Wrapf(ErrNetwork, "status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(ErrNetwork, "read body: %v", err)
	}

	var candidates []candidate
	if err := json.Unmarshal(body, &candidates); err != nil {
		return nil, eris.Wrap(err, "nominatim: parse response")
	}

	if len(candidates) == 0 {
		return &Result{Matched: false}, nil
	}

	best := candidates[0]
	lat, err := strconv.ParseFloat(best.Lat, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "nominatim: parse lat %q", best.Lat)
	}
	lon, err := strconv.ParseFloat(best.Lon, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "nominatim: parse lon %q", best.Lon)
	}

	return &Result{
		Lat:         lat,
		Lon:         lon,
		DisplayName: best.DisplayName,
		Matched:     true,
	}, nil
}
