package nominatim

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode_BestMatch(t *testing.T) {
	var gotQuery, gotFormat, gotLimit, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotFormat = r.URL.Query().Get("format")
		gotLimit = r.URL.Query().Get("limit")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"lat": "52.3791283", "lon": "4.900272", "display_name": "Amsterdam Centraal, Amsterdam"}
		]`)
	}))
	defer srv.Close()

	c := NewClient(
		WithBaseURL(srv.URL),
		WithUserAgent("poi-cli-test/1.0"),
		WithRateLimit(1000),
	)

	result, err := c.Geocode(context.Background(), "Amsterdam Centraal")
	require.NoError(t, err)

	assert.Equal(t, "Amsterdam Centraal", gotQuery)
	assert.Equal(t, "json", gotFormat)
	assert.Equal(t, "1", gotLimit)
	assert.Equal(t, "poi-cli-test/1.0", gotUA)

	assert.True(t, result.Matched)
	assert.InDelta(t, 52.3791283, result.Lat, 1e-9)
	assert.InDelta(t, 4.900272, result.Lon, 1e-9)
	assert.Equal(t, "Amsterdam Centraal, Amsterdam", result.DisplayName)
}

func TestGeocode_ZeroCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))

	result, err := c.Geocode(context.Background(), "qqqqzzzz")
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestGeocode_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))

	_, err := c.Geocode(context.Background(), "Amsterdam")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestGeocode_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))

	_, err := c.Geocode(context.Background(), "Amsterdam")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestGeocode_BadCoordinateStrings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"lat": "not-a-float", "lon": "4.9"}]`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))

	_, err := c.Geocode(context.Background(), "Amsterdam")
	assert.Error(t, err)
}
