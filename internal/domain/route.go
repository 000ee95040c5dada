package domain

import (
	"time"

	"github.com/google/uuid"
)

// RouteEstimate is the heuristic travel estimate between two coordinates.
// Path is a visual polyline hint only; it is not a routed path.
type RouteEstimate struct {
	Distance float64       `json:"distance"` // km, 2 decimal places
	Duration int           `json:"duration"` // minutes
	Path     []Coordinate  `json:"path,omitempty"`
	Mode     TransportMode `json:"transport_mode"`
}

// Leg is one directed estimate between two locations of a chain.
type Leg struct {
	FromLocationID uuid.UUID `json:"from_location_id"`
	ToLocationID   uuid.UUID `json:"to_location_id"`
	Day            DayRef    `json:"day_number"`
	RouteEstimate
}

// Route is a persisted leg owned by a plan.
// Day is Day(n) when both endpoints are on day n, CrossDay otherwise.
type Route struct {
	ID uuid.UUID `json:"id"`
	Leg
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoutePatch lists the route fields to change; nil fields are left untouched.
type RoutePatch struct {
	Estimate *RouteEstimate
	Day      *DayRef
}

// Legs strips persistence fields from routes.
func Legs(routes []Route) []Leg {
	out := make([]Leg, 0, len(routes))
	for _, r := range routes {
		out = append(out, r.Leg)
	}
	return out
}
