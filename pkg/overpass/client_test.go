package overpass

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

func TestFetch_ParsesElements(t *testing.T) {
	var gotUA, gotData string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotData = r.URL.Query().Get("data")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"elements": [
				{"type": "node", "id": 42, "lat": 52.37, "lon": 4.9, "tags": {"shop": "bakery", "name": "Joe's"}},
				{"type": "way", "id": 7, "center": {"lat": 52.38, "lon": 4.91}, "tags": {"office": "lawyer"}}
			]
		}`)
	}))
	defer srv.Close()

	c := NewClient(
		WithBaseURL(srv.URL),
		WithUserAgent("poi-cli-test/1.0"),
		WithRateLimit(1000),
	)

	elements, err := c.Fetch(context.Background(), "[out:json];node;out;")
	require.NoError(t, err)
	require.Len(t, elements, 2)

	assert.Equal(t, "poi-cli-test/1.0", gotUA)
	assert.Equal(t, "[out:json];node;out;", gotData)

	assert.Equal(t, "node", elements[0].Type)
	assert.Equal(t, int64(42), elements[0].ID)
	assert.Equal(t, "bakery", elements[0].Tags["shop"])
	require.NotNil(t, elements[0].Lat)
	assert.InDelta(t, 52.37, *elements[0].Lat, 1e-9)

	assert.Equal(t, "way", elements[1].Type)
	assert.Nil(t, elements[1].Lat)
	require.NotNil(t, elements[1].Center)
	assert.InDelta(t, 4.91, elements[1].Center.Lon, 1e-9)
}

func TestFetch_EmptyElementsIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"elements": []}`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))

	elements, err := c.Fetch(context.Background(), "query")
	require.NoError(t, err)
	assert.Empty(t, elements)
}

func TestFetch_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "503 is overloaded", status: http.StatusServiceUnavailable, want: ErrServiceOverloaded},
		{name: "500 is overloaded", status: http.StatusInternalServerError, want: ErrServiceOverloaded},
		{name: "504 is overloaded", status: http.StatusGatewayTimeout, want: ErrServiceOverloaded},
		{name: "400 is bad request", status: http.StatusBadRequest, want: ErrBadRequest},
		{name: "429 is bad request", status: http.StatusTooManyRequests, want: ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))

			_, err := c.Fetch(context.Background(), "query")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestFetch_TransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))

	_, err := c.Fetch(context.Background(), "query")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestFetch_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))

	_, err := c.Fetch(context.Background(), "query")
	assert.Error(t, err)
}
