// Package memory holds the in-memory working copy of a travel plan.
package memory

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"trip-planner-service/internal/domain"

	"github.com/google/uuid"
)

// PlanStore is the in-memory plan aggregate implementing ports.PlanStore.
//
// Every mutation enforces the plan invariants: at most one start and one
// end, assigned days within [1, total days], no self-loop or duplicate
// routes, and route endpoints that exist. Removing a location removes the
// routes touching it. PlanStore is not safe for concurrent use.
type PlanStore struct {
	id        uuid.UUID
	name      string
	totalDays int
	createdAt time.Time
	updatedAt time.Time

	locations []domain.Location
	routes    []domain.Route

	now   func() time.Time
	newID func() uuid.UUID
}

type Option func(*PlanStore)

// WithClock replaces the time source used for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *PlanStore) { s.now = now }
}

// WithIDSource replaces the generator for plan, location and route IDs.
func WithIDSource(newID func() uuid.UUID) Option {
	return func(s *PlanStore) { s.newID = newID }
}

func newStore(opts []Option) *PlanStore {
	s := &PlanStore{now: time.Now, newID: uuid.New}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewPlanStore creates an empty plan.
func NewPlanStore(name string, totalDays int, opts ...Option) (*PlanStore, error) {
	if err := domain.ValidateTotalDays(totalDays); err != nil {
		return nil, fmt.Errorf("new plan: %w", err)
	}
	s := newStore(opts)
	s.id = s.newID()
	s.name = strings.TrimSpace(name)
	s.totalDays = totalDays
	s.createdAt = s.now().UTC()
	s.updatedAt = s.createdAt
	return s, nil
}

// FromPlan loads a stored plan after checking every invariant.
func FromPlan(p domain.TravelPlan, opts ...Option) (*PlanStore, error) {
	if err := domain.ValidateTotalDays(p.TotalDays); err != nil {
		return nil, fmt.Errorf("load plan %s: %w", p.ID, err)
	}
	s := newStore(opts)
	s.id = p.ID
	if s.id == uuid.Nil {
		s.id = s.newID()
	}
	s.name = p.Name
	s.totalDays = p.TotalDays
	s.createdAt = p.CreatedAt
	s.updatedAt = p.UpdatedAt

	for _, loc := range p.Locations {
		if err := s.checkLocation(loc, uuid.Nil); err != nil {
			return nil, fmt.Errorf("load plan %s: location %s: %w", p.ID, loc.ID, err)
		}
		if _, ok := s.locationIndex(loc.ID); ok || loc.ID == uuid.Nil {
			return nil, fmt.Errorf("load plan %s: %w: location id %s is missing or repeated", p.ID, domain.ErrValidation, loc.ID)
		}
		s.locations = append(s.locations, cloneLocation(loc))
	}
	for _, r := range p.Routes {
		if err := s.checkLeg(r.Leg); err != nil {
			return nil, fmt.Errorf("load plan %s: route %s: %w", p.ID, r.ID, err)
		}
		if r.Day.IsUnassigned() {
			r.Day = domain.CrossDay()
		}
		s.routes = append(s.routes, cloneRoute(r))
	}
	return s, nil
}

func (s *PlanStore) ID() uuid.UUID { return s.id }

func (s *PlanStore) Name() string { return s.name }

func (s *PlanStore) TotalDays() int { return s.totalDays }

// SetTotalDays changes the trip length. Locations beyond the new length must
// be unassigned first; otherwise ErrDayOutOfRange is returned.
func (s *PlanStore) SetTotalDays(n int) error {
	if err := domain.ValidateTotalDays(n); err != nil {
		return fmt.Errorf("set total days: %w", err)
	}
	for _, loc := range s.locations {
		if d, ok := loc.Day.Number(); ok && d > n {
			return fmt.Errorf("set total days: %w: location %s is on day %d", domain.ErrDayOutOfRange, loc.ID, d)
		}
	}
	s.totalDays = n
	s.touch()
	return nil
}

func (s *PlanStore) Locations() []domain.Location {
	out := make([]domain.Location, 0, len(s.locations))
	for _, loc := range s.locations {
		out = append(out, cloneLocation(loc))
	}
	return out
}

func (s *PlanStore) Location(id uuid.UUID) (domain.Location, bool) {
	i, ok := s.locationIndex(id)
	if !ok {
		return domain.Location{}, false
	}
	return cloneLocation(s.locations[i]), true
}

// AddLocation validates and appends a new location.
func (s *PlanStore) AddLocation(in domain.NewLocation) (domain.Location, error) {
	now := s.now().UTC()
	loc := domain.Location{
		ID:            s.newID(),
		Name:          strings.TrimSpace(in.Name),
		Type:          in.Type,
		Coordinates:   in.Coordinates,
		Day:           in.Day,
		VisitDuration: cloneInt(in.VisitDuration),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.checkLocation(loc, uuid.Nil); err != nil {
		return domain.Location{}, fmt.Errorf("add location: %w", err)
	}
	s.locations = append(s.locations, loc)
	s.touch()
	return cloneLocation(loc), nil
}

// UpdateLocation applies patch to the location with the given id.
func (s *PlanStore) UpdateLocation(id uuid.UUID, patch domain.LocationPatch) (domain.Location, error) {
	i, ok := s.locationIndex(id)
	if !ok {
		return domain.Location{}, fmt.Errorf("update location: %w: location %s", domain.ErrNotFound, id)
	}

	loc := cloneLocation(s.locations[i])
	if patch.Name != nil {
		loc.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Type != nil {
		loc.Type = *patch.Type
	}
	if patch.Coordinates != nil {
		loc.Coordinates = *patch.Coordinates
	}
	if patch.Day != nil {
		loc.Day = *patch.Day
	}
	if patch.VisitDuration != nil {
		loc.VisitDuration = cloneInt(patch.VisitDuration)
	}
	if err := s.checkLocation(loc, id); err != nil {
		return domain.Location{}, fmt.Errorf("update location: %w", err)
	}

	loc.UpdatedAt = s.now().UTC()
	s.locations[i] = loc
	s.touch()
	return cloneLocation(loc), nil
}

// RemoveLocation deletes a location and every route touching it.
// It returns the number of routes removed with it.
func (s *PlanStore) RemoveLocation(id uuid.UUID) (int, error) {
	i, ok := s.locationIndex(id)
	if !ok {
		return 0, fmt.Errorf("remove location: %w: location %s", domain.ErrNotFound, id)
	}
	s.locations = slices.Delete(s.locations, i, i+1)

	before := len(s.routes)
	s.routes = slices.DeleteFunc(s.routes, func(r domain.Route) bool {
		return r.FromLocationID == id || r.ToLocationID == id
	})
	s.touch()
	return before - len(s.routes), nil
}

func (s *PlanStore) Routes() []domain.Route {
	out := make([]domain.Route, 0, len(s.routes))
	for _, r := range s.routes {
		out = append(out, cloneRoute(r))
	}
	return out
}

func (s *PlanStore) Route(id uuid.UUID) (domain.Route, bool) {
	i, ok := s.routeIndex(id)
	if !ok {
		return domain.Route{}, false
	}
	return cloneRoute(s.routes[i]), true
}

// AddRoute stores leg as a new route. An unassigned leg day is stored as
// cross-day; reconciliation fixes it up afterwards.
func (s *PlanStore) AddRoute(leg domain.Leg) (domain.Route, error) {
	if err := s.checkLeg(leg); err != nil {
		return domain.Route{}, fmt.Errorf("add route: %w", err)
	}
	if leg.Day.IsUnassigned() {
		leg.Day = domain.CrossDay()
	}
	now := s.now().UTC()
	r := domain.Route{ID: s.newID(), Leg: leg, CreatedAt: now, UpdatedAt: now}
	r.Path = slices.Clone(leg.Path)
	s.routes = append(s.routes, r)
	s.touch()
	return cloneRoute(r), nil
}

// UpdateRoute replaces the estimate and/or day of a route. Endpoints never
// change; remove and re-add the route instead.
func (s *PlanStore) UpdateRoute(id uuid.UUID, patch domain.RoutePatch) (domain.Route, error) {
	i, ok := s.routeIndex(id)
	if !ok {
		return domain.Route{}, fmt.Errorf("update route: %w: route %s", domain.ErrNotFound, id)
	}
	r := cloneRoute(s.routes[i])
	if patch.Estimate != nil {
		if !patch.Estimate.Mode.Valid() {
			return domain.Route{}, fmt.Errorf("update route: %w: %v", domain.ErrInvalidTransportMode, patch.Estimate.Mode)
		}
		r.RouteEstimate = *patch.Estimate
		r.Path = slices.Clone(patch.Estimate.Path)
	}
	if patch.Day != nil {
		if patch.Day.IsUnassigned() {
			return domain.Route{}, fmt.Errorf("update route: %w: route day cannot be unassigned", domain.ErrValidation)
		}
		r.Day = *patch.Day
	}
	r.UpdatedAt = s.now().UTC()
	s.routes[i] = r
	s.touch()
	return cloneRoute(r), nil
}

func (s *PlanStore) RemoveRoute(id uuid.UUID) error {
	i, ok := s.routeIndex(id)
	if !ok {
		return fmt.Errorf("remove route: %w: route %s", domain.ErrNotFound, id)
	}
	s.routes = slices.Delete(s.routes, i, i+1)
	s.touch()
	return nil
}

// Snapshot returns a deep copy of the plan for persistence or export.
func (s *PlanStore) Snapshot() domain.TravelPlan {
	return domain.TravelPlan{
		ID:        s.id,
		Name:      s.name,
		TotalDays: s.totalDays,
		Locations: s.Locations(),
		Routes:    s.Routes(),
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
}

// checkLocation validates loc as it would be stored. self is the ID of the
// location being replaced, uuid.Nil for a new one.
func (s *PlanStore) checkLocation(loc domain.Location, self uuid.UUID) error {
	if !loc.Type.Valid() {
		return fmt.Errorf("%w: location type is required", domain.ErrValidation)
	}
	if err := loc.Coordinates.Validate(); err != nil {
		return err
	}
	if err := domain.ValidateVisitDuration(loc.VisitDuration); err != nil {
		return err
	}
	if loc.Day.IsCrossDay() {
		return fmt.Errorf("%w: a location cannot be cross-day", domain.ErrValidation)
	}
	if d, ok := loc.Day.Number(); ok {
		if err := domain.ValidateDay(d, s.totalDays); err != nil {
			return err
		}
	}
	if loc.Type.IsAnchor() {
		for _, other := range s.locations {
			if other.ID != self && other.Type == loc.Type {
				return fmt.Errorf("%w: plan already has a %s location (%s)", domain.ErrDuplicateAnchor, loc.Type, other.ID)
			}
		}
	}
	return nil
}

func (s *PlanStore) checkLeg(leg domain.Leg) error {
	if leg.FromLocationID == leg.ToLocationID {
		return fmt.Errorf("%w: %s", domain.ErrSelfLoopRoute, leg.FromLocationID)
	}
	for _, id := range []uuid.UUID{leg.FromLocationID, leg.ToLocationID} {
		if _, ok := s.locationIndex(id); !ok {
			return fmt.Errorf("%w: location %s", domain.ErrMissingEndpoint, id)
		}
	}
	if !leg.Mode.Valid() {
		return fmt.Errorf("%w: %v", domain.ErrInvalidTransportMode, leg.Mode)
	}
	if leg.Distance < 0 || leg.Duration < 0 {
		return fmt.Errorf("%w: distance and duration must not be negative", domain.ErrValidation)
	}
	for _, r := range s.routes {
		if r.FromLocationID == leg.FromLocationID && r.ToLocationID == leg.ToLocationID {
			return fmt.Errorf("%w: %s -> %s already exists as %s", domain.ErrDuplicateRoute, leg.FromLocationID, leg.ToLocationID, r.ID)
		}
	}
	return nil
}

func (s *PlanStore) locationIndex(id uuid.UUID) (int, bool) {
	i := slices.IndexFunc(s.locations, func(l domain.Location) bool { return l.ID == id })
	return i, i >= 0
}

func (s *PlanStore) routeIndex(id uuid.UUID) (int, bool) {
	i := slices.IndexFunc(s.routes, func(r domain.Route) bool { return r.ID == id })
	return i, i >= 0
}

func (s *PlanStore) touch() { s.updatedAt = s.now().UTC() }

func cloneLocation(l domain.Location) domain.Location {
	l.VisitDuration = cloneInt(l.VisitDuration)
	return l
}

func cloneRoute(r domain.Route) domain.Route {
	r.Path = slices.Clone(r.Path)
	return r
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
