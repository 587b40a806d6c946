// Package resolve turns free-form location input into coordinates: literal
// "lat, lon" pairs are parsed directly, anything else is geocoded.
package resolve

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/poi-cli/internal/model"
	"github.com/sells-group/poi-cli/pkg/nominatim"
)

// Typed errors callers distinguish with errors.Is.
var (
	// ErrLocationNotFound means geocoding yielded zero candidates; the user
	// must rephrase the input.
	ErrLocationNotFound = eris.New("resolve: location not found")
	// ErrInvalidCoordinate means the input parsed as a coordinate literal
	// but is outside WGS84 bounds.
	ErrInvalidCoordinate = eris.New("resolve: coordinates out of range")
)

// Resolver disambiguates literal coordinates from free-text place names.
type Resolver struct {
	geocoder nominatim.Client
}

// New creates a Resolver delegating free-text input to the given geocoder.
func New(geocoder nominatim.Client) *Resolver {
	return &Resolver{geocoder: geocoder}
}

// Resolve parses input as "lat, lon" when possible (no network call),
// otherwise geocodes it. Geocoder transport errors propagate unchanged so
// callers keep their typed identity.
func (r *Resolver) Resolve(ctx context.Context, input string) (model.Location, error) {
	if loc, literal, err := parseLiteral(input); literal {
		if err != nil {
			return model.Location{}, err
		}
		zap.L().Debug("resolved literal coordinates",
			zap.Float64("lat", loc.Lat),
			zap.Float64("lon", loc.Lon),
		)
		return loc, nil
	}

	result, err := r.geocoder.Geocode(ctx, strings.TrimSpace(input))
	if err != nil {
		return model.Location{}, err
	}
	if !result.Matched {
		return model.Location{}, eris.Wrapf(ErrLocationNotFound, "no match for %q", input)
	}

	zap.L().Debug("geocoded place name",
		zap.String("input", input),
		zap.String("display_name", result.DisplayName),
		zap.Float64("lat", result.Lat),
		zap.Float64("lon", result.Lon),
	)
	return model.Location{Lat: result.Lat, Lon: result.Lon}, nil
}

// parseLiteral attempts to read input as exactly two comma-separated floats.
// literal is false when the input is not a coordinate pair at all (for
// example "New York, USA"), in which case the caller should geocode instead.
func parseLiteral(input string) (loc model.Location, literal bool, err error) {
	parts := strings.Split(input, ",")
	if len(parts) != 2 {
		return model.Location{}, false, nil
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lonErr != nil {
		return model.Location{}, false, nil
	}

	loc = model.Location{Lat: lat, Lon: lon}
	if !loc.Valid() {
		return model.Location{}, true, eris.Wrapf(ErrInvalidCoordinate, "%v, %v", lat, lon)
	}
	return loc, true, nil
}
