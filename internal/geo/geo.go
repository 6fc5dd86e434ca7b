package geo

import (
	"context"
	"math"
)

// Point is a lat/lon pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Geocoder resolves postal codes and free-text locations to coordinates.
// The boolean reports whether the input resolved; providers never return
// errors because a failed lookup only narrows filtering, it must not break
// a search.
type Geocoder interface {
	Zip(ctx context.Context, zip string) (Point, bool)
	Location(ctx context.Context, loc string) (Point, bool)
}

// Noop is the geocoder used when no provider is configured. Nothing
// resolves, which disables radius filtering entirely.
type Noop struct{}

func (Noop) Zip(context.Context, string) (Point, bool)      { return Point{}, false }
func (Noop) Location(context.Context, string) (Point, bool) { return Point{}, false }

const earthRadiusMiles = 3958.8

// DistanceMiles is the haversine great-circle distance between two points.
func DistanceMiles(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}

// WithinRadius reports whether b lies within miles of a.
func WithinRadius(a, b Point, miles float64) bool {
	return DistanceMiles(a, b) <= miles
}
