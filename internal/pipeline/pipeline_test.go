package pipeline

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/poi-cli/internal/resolve"
	"github.com/sells-group/poi-cli/internal/taxonomy"
	"github.com/sells-group/poi-cli/pkg/nominatim"
	"github.com/sells-group/poi-cli/pkg/overpass"
)

func newTestPipeline(t *testing.T, overpassHandler http.HandlerFunc) (*Pipeline, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(overpassHandler)
	t.Cleanup(srv.Close)

	client := overpass.NewClient(
		overpass.WithBaseURL(srv.URL),
		overpass.WithRateLimit(1000),
	)
	// Geocoder endpoint that must never be reached for literal coordinates.
	geoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("geocoder called for literal coordinate input")
	}))
	t.Cleanup(geoSrv.Close)
	geocoder := nominatim.NewClient(nominatim.WithBaseURL(geoSrv.URL), nominatim.WithRateLimit(1000))

	return New(taxonomy.Default(), resolve.New(geocoder), client), srv
}

func TestRun_EndToEnd(t *testing.T) {
	var gotQuery string
	p, _ := newTestPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("data")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"elements": [
				{"type": "node", "id": 1, "lat": 52.3801, "lon": 4.9008, "tags": {"shop": "bakery", "amenity": "cafe", "name": "Joe's"}},
				{"type": "way", "id": 2, "center": {"lat": 52.3795, "lon": 4.9}, "tags": {"amenity": "restaurant"}}
			]
		}`)
	})

	rs, err := p.Run(context.Background(), "52.3791283, 4.900272", 1)
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "around:1000.0,52.3791283,4.900272")
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", rs.RunID.String())
	assert.InDelta(t, 52.3791283, rs.Center.Lat, 1e-9)
	assert.Equal(t, 1.0, rs.RadiusKM)
	require.Equal(t, 2, rs.Count())

	// Shop wins over co-present amenity on the same element.
	categories := map[string]bool{}
	for _, e := range rs.Entities {
		categories[e.Category] = true
	}
	assert.True(t, categories["Shop: bakery"])
	assert.True(t, categories["Amenity: restaurant"])

	// Sorted nearest-first.
	assert.LessOrEqual(t, rs.Entities[0].DistanceM, rs.Entities[1].DistanceM)
}

func TestRun_EmptyResultIsNotAnError(t *testing.T) {
	p, _ := newTestPipeline(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"elements": []}`)
	})

	rs, err := p.Run(context.Background(), "52.3791283, 4.900272", 1)
	require.NoError(t, err)
	assert.Zero(t, rs.Count())
}

func TestRun_InvalidRadius(t *testing.T) {
	p, _ := newTestPipeline(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("overpass must not be called for an invalid radius")
	})

	_, err := p.Run(context.Background(), "52.3791283, 4.900272", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, overpass.ErrInvalidRadius))
}

func TestRun_OverloadedServiceSurfacesTyped(t *testing.T) {
	p, _ := newTestPipeline(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := p.Run(context.Background(), "52.3791283, 4.900272", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, overpass.ErrServiceOverloaded))
}

func TestRun_LocationNotFound(t *testing.T) {
	overpassSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("overpass must not be called when resolution fails")
	}))
	t.Cleanup(overpassSrv.Close)
	geoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(geoSrv.Close)

	p := New(
		taxonomy.Default(),
		resolve.New(nominatim.NewClient(nominatim.WithBaseURL(geoSrv.URL), nominatim.WithRateLimit(1000))),
		overpass.NewClient(overpass.WithBaseURL(overpassSrv.URL), overpass.WithRateLimit(1000)),
	)

	_, err := p.Run(context.Background(), "Nowhere In Particular", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolve.ErrLocationNotFound))
}
