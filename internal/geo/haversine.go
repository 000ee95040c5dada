// Package geo holds the great-circle math used by route estimation.
package geo

import (
	"math"
	"trip-planner-service/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used by DistanceKm.
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine great-circle distance between a and b.
// Coordinates are assumed valid; callers validate first.
func DistanceKm(a, b domain.Coordinate) float64 {
	if a == b {
		return 0
	}
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// Bounds is the axis-aligned box enclosing a set of coordinates.
type Bounds struct {
	SouthWest domain.Coordinate `json:"south_west"`
	NorthEast domain.Coordinate `json:"north_east"`
}

// BoundsOf returns the box enclosing coords, or false when coords is empty.
func BoundsOf(coords []domain.Coordinate) (Bounds, bool) {
	if len(coords) == 0 {
		return Bounds{}, false
	}
	b := Bounds{SouthWest: coords[0], NorthEast: coords[0]}
	for _, c := range coords[1:] {
		b.SouthWest.Lat = math.Min(b.SouthWest.Lat, c.Lat)
		b.SouthWest.Lng = math.Min(b.SouthWest.Lng, c.Lng)
		b.NorthEast.Lat = math.Max(b.NorthEast.Lat, c.Lat)
		b.NorthEast.Lng = math.Max(b.NorthEast.Lng, c.Lng)
	}
	return b, true
}
