package ports

import (
	"trip-planner-service/internal/domain"

	"github.com/google/uuid"
)

// Port: the working copy of the plan being edited.
// Implementations are the single source of truth for which locations and
// routes exist, and enforce the plan invariants on every mutation.
type PlanStore interface {
	Locations() []domain.Location
	Routes() []domain.Route
	TotalDays() int
	SetTotalDays(n int) error

	// Add a route for leg. Fails on self loops, missing endpoints and
	// duplicate (from, to) pairs.
	AddRoute(leg domain.Leg) (domain.Route, error)
	UpdateRoute(id uuid.UUID, patch domain.RoutePatch) (domain.Route, error)
	RemoveRoute(id uuid.UUID) error

	UpdateLocation(id uuid.UUID, patch domain.LocationPatch) (domain.Location, error)
}

// Port: access to the currently loaded plan, if any.
type PlanSession interface {
	Current() (PlanStore, bool)
}
