// Package model defines the data types flowing through the extraction pipeline.
package model

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/twpayne/go-geom"
)

// Location is a WGS84 coordinate pair in floating-point degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the location is within WGS84 bounds.
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lon >= -180 && l.Lon <= 180
}

// Coord returns the location as a go-geom coordinate (lon, lat order).
func (l Location) Coord() geom.Coord {
	return geom.Coord{l.Lon, l.Lat}
}

// earthRadiusM is the mean Earth radius used for haversine distances.
const earthRadiusM = 6371000.0

// HaversineMeters returns the great-circle distance in meters between two
// (lon, lat) coordinates.
func HaversineMeters(a, b geom.Coord) float64 {
	lat1 := a.Y() * math.Pi / 180
	lat2 := b.Y() * math.Pi / 180
	dLat := (b.Y() - a.Y()) * math.Pi / 180
	dLon := (b.X() - a.X()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}

// RawEntity is one element as returned by the spatial data provider: a kind,
// a provider ID, a flat tag mapping, and a representative point when the
// provider supplied one. The provider does not de-duplicate; the same
// real-world object may appear under multiple kinds.
type RawEntity struct {
	Kind string            `json:"kind"` // node, way, relation
	ID   int64             `json:"id"`
	Tags map[string]string `json:"tags"`

	// Point holds (lon, lat) of the element or its centroid; nil when the
	// provider returned no geometry.
	Point geom.Coord `json:"point,omitempty"`
}

// Tag returns the value for key, or "" when absent.
func (e RawEntity) Tag(key string) string {
	return e.Tags[key]
}

// LatLon returns the entity's point in (lat, lon) order.
func (e RawEntity) LatLon() (lat, lon float64, ok bool) {
	if len(e.Point) < 2 {
		return 0, 0, false
	}
	return e.Point.Y(), e.Point.X(), true
}

// CategorizedEntity is a RawEntity with exactly one assigned category label
// and its distance from the query center. Immutable once produced.
type CategorizedEntity struct {
	RawEntity

	// Category is "<Axis>: <value>" or the sentinel "Other".
	Category string `json:"category"`

	// DistanceM is the haversine distance in meters from the query center,
	// or -1 when the provider returned no geometry for the element.
	DistanceM float64 `json:"distance_m"`
}

// ResultSet is the ordered output of one extraction run. Created fresh per
// query and never persisted by the core.
type ResultSet struct {
	RunID    uuid.UUID           `json:"run_id"`
	Center   Location            `json:"center"`
	RadiusKM float64             `json:"radius_km"`
	Entities []CategorizedEntity `json:"entities"`
	Took     time.Duration       `json:"-"`
}

// Count returns the number of entities in the set.
func (r *ResultSet) Count() int { return len(r.Entities) }

// SortByDistance orders entities nearest-first; entities without geometry
// sort last. The sort is stable so provider order breaks ties.
func (r *ResultSet) SortByDistance() {
	sort.SliceStable(r.Entities, func(i, j int) bool {
		di, dj := r.Entities[i].DistanceM, r.Entities[j].DistanceM
		if di < 0 {
			return false
		}
		if dj < 0 {
			return true
		}
		return di < dj
	})
}
