package services

import (
	"fmt"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PlanRouter applies RouteCalculator output to the current plan.
type PlanRouter struct {
	session ports.PlanSession
	calc    *RouteCalculator
	days    *DayPlanAssigner
	log     logrus.FieldLogger
}

func NewPlanRouter(session ports.PlanSession, calc *RouteCalculator, days *DayPlanAssigner, log logrus.FieldLogger) *PlanRouter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PlanRouter{session: session, calc: calc, days: days, log: log}
}

func (p *PlanRouter) current() (ports.PlanStore, map[uuid.UUID]domain.Location, error) {
	store, ok := p.session.Current()
	if !ok {
		return nil, nil, domain.ErrNoCurrentPlan
	}
	byID := make(map[uuid.UUID]domain.Location)
	for _, loc := range store.Locations() {
		byID[loc.ID] = loc
	}
	return store, byID, nil
}

// Connect estimates and stores a route between two locations of the plan.
func (p *PlanRouter) Connect(fromID, toID uuid.UUID, mode domain.TransportMode) (domain.Route, error) {
	store, byID, err := p.current()
	if err != nil {
		return domain.Route{}, fmt.Errorf("connect: %w", err)
	}
	if fromID == toID {
		return domain.Route{}, fmt.Errorf("connect: %w: %s", domain.ErrSelfLoopRoute, fromID)
	}
	from, ok := byID[fromID]
	if !ok {
		return domain.Route{}, fmt.Errorf("connect: %w: location %s", domain.ErrNotFound, fromID)
	}
	to, ok := byID[toID]
	if !ok {
		return domain.Route{}, fmt.Errorf("connect: %w: location %s", domain.ErrNotFound, toID)
	}

	est, err := p.calc.ComputeRoute(from.Coordinates, to.Coordinates, mode)
	if err != nil {
		return domain.Route{}, fmt.Errorf("connect: %w", err)
	}
	r, err := store.AddRoute(domain.Leg{
		FromLocationID: fromID,
		ToLocationID:   toID,
		Day:            domain.CrossDay(),
		RouteEstimate:  est,
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("connect: %w", err)
	}
	if err := p.days.reconcile(store); err != nil {
		return domain.Route{}, fmt.Errorf("connect: %w", err)
	}
	return p.route(store, r.ID)
}

// ChangeMode re-estimates a route with another transport mode. The route
// keeps its endpoints and day.
func (p *PlanRouter) ChangeMode(routeID uuid.UUID, mode domain.TransportMode) (domain.Route, error) {
	store, byID, err := p.current()
	if err != nil {
		return domain.Route{}, fmt.Errorf("change mode: %w", err)
	}
	r, err := p.route(store, routeID)
	if err != nil {
		return domain.Route{}, fmt.Errorf("change mode: %w", err)
	}
	updated, err := p.reestimate(store, byID, r, mode)
	if err != nil {
		return domain.Route{}, fmt.Errorf("change mode: %w", err)
	}
	return updated, nil
}

// RecomputeRoutesFor re-estimates every route touching a location, keeping
// each route's mode. Callers use it after moving the location.
func (p *PlanRouter) RecomputeRoutesFor(locationID uuid.UUID) (int, error) {
	store, byID, err := p.current()
	if err != nil {
		return 0, fmt.Errorf("recompute routes: %w", err)
	}
	n := 0
	for _, r := range store.Routes() {
		if r.FromLocationID != locationID && r.ToLocationID != locationID {
			continue
		}
		if _, err := p.reestimate(store, byID, r, r.Mode); err != nil {
			return n, fmt.Errorf("recompute routes: %w", err)
		}
		n++
	}
	return n, nil
}

func (p *PlanRouter) reestimate(store ports.PlanStore, byID map[uuid.UUID]domain.Location, r domain.Route, mode domain.TransportMode) (domain.Route, error) {
	from, okFrom := byID[r.FromLocationID]
	to, okTo := byID[r.ToLocationID]
	if !okFrom || !okTo {
		return domain.Route{}, fmt.Errorf("%w: route %s", domain.ErrMissingEndpoint, r.ID)
	}
	est, err := p.calc.ComputeRoute(from.Coordinates, to.Coordinates, mode)
	if err != nil {
		return domain.Route{}, err
	}
	return store.UpdateRoute(r.ID, domain.RoutePatch{Estimate: &est})
}

// AutoConnect replaces every route of the plan with calculator output:
// one SmartConnect chain over all locations, or one chain per day when
// byDay is set. All legs are computed before any existing route is removed,
// so a failing computation leaves the plan untouched.
func (p *PlanRouter) AutoConnect(mode domain.TransportMode, byDay bool) ([]domain.Route, error) {
	store, _, err := p.current()
	if err != nil {
		return nil, fmt.Errorf("auto connect: %w", err)
	}

	locations := store.Locations()
	var legs []domain.Leg
	if byDay {
		buckets, err := p.calc.ComputeRoutesByDay(locations, mode)
		if err != nil {
			return nil, fmt.Errorf("auto connect: %w", err)
		}
		for _, d := range buckets.Days() {
			legs = append(legs, buckets[d].Legs...)
		}
	} else {
		conn, err := p.calc.SmartConnect(locations, mode)
		if err != nil {
			return nil, fmt.Errorf("auto connect: %w", err)
		}
		legs = conn.Legs
	}

	removed := 0
	for _, r := range store.Routes() {
		if err := store.RemoveRoute(r.ID); err != nil {
			return nil, fmt.Errorf("auto connect: %w", err)
		}
		removed++
	}
	for _, leg := range legs {
		if _, err := store.AddRoute(leg); err != nil {
			return nil, fmt.Errorf("auto connect: %w", err)
		}
	}
	if err := p.days.reconcile(store); err != nil {
		return nil, fmt.Errorf("auto connect: %w", err)
	}

	p.log.WithFields(logrus.Fields{
		"mode":    mode.String(),
		"by_day":  byDay,
		"removed": removed,
		"added":   len(legs),
	}).Info("routes auto connected")
	return store.Routes(), nil
}

func (p *PlanRouter) route(store ports.PlanStore, id uuid.UUID) (domain.Route, error) {
	for _, r := range store.Routes() {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Route{}, fmt.Errorf("%w: route %s", domain.ErrNotFound, id)
}
