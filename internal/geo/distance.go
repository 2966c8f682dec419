package geo

import (
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"

	"eventsearch/internal/domain"
)

// ToOrb converts a domain point to an orb point (lng, lat order).
func ToOrb(p domain.Point) orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b domain.Point) float64 {
	return orbgeo.DistanceHaversine(ToOrb(a), ToOrb(b))
}

// WithinRadius reports whether p lies within meters of center.
func WithinRadius(p, center domain.Point, meters float64) bool {
	return Distance(p, center) <= meters
}
