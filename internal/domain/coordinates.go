package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinates (latitude, longitude) in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate rejects NaN, infinite and out-of-range coordinates.
// It never clamps: callers must validate before any distance computation.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return fmt.Errorf("%w: lat=%v lng=%v is not a number", ErrInvalidCoordinate, c.Lat, c.Lng)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: lat=%v outside [-90, 90]", ErrInvalidCoordinate, c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: lng=%v outside [-180, 180]", ErrInvalidCoordinate, c.Lng)
	}
	return nil
}
