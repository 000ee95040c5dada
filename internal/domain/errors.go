package domain

import "errors"

// Validation failures detected before any state is touched.
var (
	ErrInvalidCoordinate    = errors.New("invalid coordinate")
	ErrInvalidTransportMode = errors.New("invalid transport mode")
	ErrDayOutOfRange        = errors.New("day out of range")
	ErrValidation           = errors.New("validation error")
)

// Plan invariant violations.
var (
	ErrDuplicateAnchor  = errors.New("duplicate anchor location")
	ErrDuplicateRoute   = errors.New("duplicate route")
	ErrSelfLoopRoute    = errors.New("route endpoints must differ")
	ErrMissingEndpoint  = errors.New("route endpoint missing")
	ErrNoAnchorLocation = errors.New("no start or waypoint location")
)

// Lookup failures.
var (
	ErrNoCurrentPlan = errors.New("no current plan")
	ErrNotFound      = errors.New("not found")
	ErrPlanNotFound  = errors.New("plan not found")
)
