package services

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/geo"
)

// midpointJitterDeg bounds the random offset applied to the placeholder
// polyline midpoint on each axis (+/- half of this value).
const midpointJitterDeg = 0.01

// RouteCalculator turns coordinates and locations into heuristic route
// estimates. It holds no plan state and is safe for concurrent use as long
// as the jitter source is.
type RouteCalculator struct {
	jitter  func() float64
	observe func(domain.TransportMode)
}

type CalculatorOption func(*RouteCalculator)

// WithJitter replaces the source of the placeholder path midpoint offset.
// fn must return values in [0, 1).
func WithJitter(fn func() float64) CalculatorOption {
	return func(c *RouteCalculator) { c.jitter = fn }
}

// WithEstimateObserver registers fn to be called once per successful
// ComputeRoute with the mode that was estimated.
func WithEstimateObserver(fn func(domain.TransportMode)) CalculatorOption {
	return func(c *RouteCalculator) { c.observe = fn }
}

func NewRouteCalculator(opts ...CalculatorOption) *RouteCalculator {
	c := &RouteCalculator{jitter: rand.Float64, observe: func(domain.TransportMode) {}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connection is an ordered visiting sequence and the legs chaining it.
type Connection struct {
	Order []domain.Location `json:"order"`
	Legs  []domain.Leg      `json:"legs"`
}

// DayBucket groups the locations of one day and the legs connecting them.
type DayBucket struct {
	Day       int               `json:"day"`
	Locations []domain.Location `json:"locations"`
	Legs      []domain.Leg      `json:"legs"`
}

// RoutesByDay maps a day number to its bucket.
type RoutesByDay map[int]DayBucket

// Days returns the bucket keys in ascending order.
func (r RoutesByDay) Days() []int {
	days := make([]int, 0, len(r))
	for d := range r {
		days = append(days, d)
	}
	slices.Sort(days)
	return days
}

// Reachability is the outcome of CheckReachability.
type Reachability struct {
	Accessible   bool                   `json:"accessible"`
	Reason       string                 `json:"reason,omitempty"`
	Alternatives []domain.TransportMode `json:"alternatives,omitempty"`
	Estimate     *domain.RouteEstimate  `json:"estimate,omitempty"`
}

// ComputeRoute estimates a single leg between two coordinates.
//
// The returned path is a three-point placeholder (from, jittered midpoint,
// to). Only the midpoint varies between calls; distance and duration are
// deterministic.
func (c *RouteCalculator) ComputeRoute(from, to domain.Coordinate, mode domain.TransportMode) (domain.RouteEstimate, error) {
	if err := from.Validate(); err != nil {
		return domain.RouteEstimate{}, fmt.Errorf("compute route: from: %w", err)
	}
	if err := to.Validate(); err != nil {
		return domain.RouteEstimate{}, fmt.Errorf("compute route: to: %w", err)
	}

	adjusted, err := EstimateDistance(geo.DistanceKm(from, to), mode)
	if err != nil {
		return domain.RouteEstimate{}, fmt.Errorf("compute route: %w", err)
	}
	duration, err := EstimateDuration(adjusted, mode)
	if err != nil {
		return domain.RouteEstimate{}, fmt.Errorf("compute route: %w", err)
	}

	c.observe(mode)
	return domain.RouteEstimate{
		Distance: roundKm(adjusted),
		Duration: duration,
		Path:     []domain.Coordinate{from, c.midpoint(from, to), to},
		Mode:     mode,
	}, nil
}

func (c *RouteCalculator) midpoint(a, b domain.Coordinate) domain.Coordinate {
	lat := (a.Lat+b.Lat)/2 + (c.jitter()-0.5)*midpointJitterDeg
	lng := (a.Lng+b.Lng)/2 + (c.jitter()-0.5)*midpointJitterDeg
	return domain.Coordinate{
		Lat: math.Max(-90, math.Min(90, lat)),
		Lng: math.Max(-180, math.Min(180, lng)),
	}
}

// ComputeChain estimates one leg per consecutive pair of locations.
//
// Each leg takes the day of its from location, day 1 when unassigned. A
// failing leg fails the whole chain; no partial chain is returned.
func (c *RouteCalculator) ComputeChain(locations []domain.Location, mode domain.TransportMode) ([]domain.Leg, error) {
	if len(locations) < 2 {
		return []domain.Leg{}, nil
	}

	legs := make([]domain.Leg, 0, len(locations)-1)
	for i := 0; i < len(locations)-1; i++ {
		from, to := locations[i], locations[i+1]
		est, err := c.ComputeRoute(from.Coordinates, to.Coordinates, mode)
		if err != nil {
			return nil, fmt.Errorf("compute chain: leg %d (%s -> %s): %w", i+1, from.ID, to.ID, err)
		}
		legs = append(legs, domain.Leg{
			FromLocationID: from.ID,
			ToLocationID:   to.ID,
			Day:            domain.Day(from.Day.NumberOr(1)),
			RouteEstimate:  est,
		})
	}
	return legs, nil
}

// SmartConnect orders locations by their type and chains them.
//
// With a start location the waypoints (and optional end) are ordered by
// nearest neighbour from the start. Without one, waypoints are ordered by
// day and then creation time, and the end is appended.
func (c *RouteCalculator) SmartConnect(locations []domain.Location, mode domain.TransportMode) (Connection, error) {
	var (
		start, end *domain.Location
		waypoints  []domain.Location
	)
	for i := range locations {
		loc := locations[i]
		switch loc.Type {
		case domain.Start:
			if start != nil {
				return Connection{}, fmt.Errorf("smart connect: %w: more than one start", domain.ErrDuplicateAnchor)
			}
			start = &loc
		case domain.End:
			if end != nil {
				return Connection{}, fmt.Errorf("smart connect: %w: more than one end", domain.ErrDuplicateAnchor)
			}
			end = &loc
		case domain.Waypoint:
			waypoints = append(waypoints, loc)
		default:
			return Connection{}, fmt.Errorf("smart connect: %w: location %s has unknown type", domain.ErrValidation, loc.ID)
		}
	}

	var order []domain.Location
	switch {
	case start != nil:
		ordered, err := c.OptimizeOrder(*start, waypoints, end, mode)
		if err != nil {
			return Connection{}, fmt.Errorf("smart connect: %w", err)
		}
		order = ordered
	case len(waypoints) > 0:
		order = sortByDayThenCreation(waypoints)
		if end != nil {
			order = append(order, *end)
		}
	default:
		return Connection{}, fmt.Errorf("smart connect: %w", domain.ErrNoAnchorLocation)
	}

	legs, err := c.ComputeChain(order, mode)
	if err != nil {
		return Connection{}, fmt.Errorf("smart connect: %w", err)
	}
	return Connection{Order: order, Legs: legs}, nil
}

// sortByDayThenCreation orders a copy of locs by day (unassigned counts as
// day 1) and then creation time; equal keys keep input order.
func sortByDayThenCreation(locs []domain.Location) []domain.Location {
	out := slices.Clone(locs)
	slices.SortStableFunc(out, func(a, b domain.Location) int {
		if c := cmp.Compare(a.Day.NumberOr(1), b.Day.NumberOr(1)); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

// ComputeRoutesByDay buckets locations by day and connects every bucket
// holding at least two locations. Unassigned locations land in bucket 1;
// this bucketing serves statistics and does not assign anything.
func (c *RouteCalculator) ComputeRoutesByDay(locations []domain.Location, mode domain.TransportMode) (RoutesByDay, error) {
	buckets := make(map[int][]domain.Location)
	for _, loc := range locations {
		d := loc.Day.NumberOr(1)
		buckets[d] = append(buckets[d], loc)
	}

	out := make(RoutesByDay, len(buckets))
	for _, day := range slices.Sorted(maps.Keys(buckets)) {
		locs := buckets[day]
		if len(locs) < 2 {
			out[day] = DayBucket{Day: day, Locations: locs, Legs: []domain.Leg{}}
			continue
		}
		conn, err := c.SmartConnect(locs, mode)
		if err != nil {
			return nil, fmt.Errorf("compute routes by day: day %d: %w", day, err)
		}
		out[day] = DayBucket{Day: day, Locations: conn.Order, Legs: conn.Legs}
	}
	return out, nil
}

// CheckReachability reports whether mode is reasonable between two points.
// It never returns an error: every failure is described by Reason.
//
// When the distance exceeds the mode's ceiling, Alternatives lists the other
// modes built for longer trips (a higher ceiling), in AllTransportModes order.
func (c *RouteCalculator) CheckReachability(from, to domain.Coordinate, mode domain.TransportMode) Reachability {
	ceiling, err := MaxReasonableDistance(mode)
	if err != nil {
		return Reachability{Reason: err.Error()}
	}
	for _, p := range []domain.Coordinate{from, to} {
		if err := p.Validate(); err != nil {
			return Reachability{Reason: err.Error()}
		}
	}

	straight := geo.DistanceKm(from, to)
	if straight > ceiling {
		var alternatives []domain.TransportMode
		for _, m := range domain.AllTransportModes {
			if m == mode {
				continue
			}
			if alt, err := MaxReasonableDistance(m); err == nil && alt > ceiling {
				alternatives = append(alternatives, m)
			}
		}
		return Reachability{
			Reason:       fmt.Sprintf("distance %.2f km exceeds the %.0f km limit for %s", straight, ceiling, mode),
			Alternatives: alternatives,
		}
	}

	est, err := c.ComputeRoute(from, to, mode)
	if err != nil {
		return Reachability{Reason: err.Error()}
	}
	return Reachability{Accessible: true, Estimate: &est}
}

// AlternativeRoutes estimates the leg for every transport mode. Modes that
// are unreachable or fail to compute are skipped; the remaining estimates
// are returned in AllTransportModes order.
func (c *RouteCalculator) AlternativeRoutes(from, to domain.Coordinate) []domain.RouteEstimate {
	out := make([]domain.RouteEstimate, 0, len(domain.AllTransportModes))
	for _, m := range domain.AllTransportModes {
		r := c.CheckReachability(from, to, m)
		if !r.Accessible || r.Estimate == nil {
			continue
		}
		out = append(out, *r.Estimate)
	}
	return out
}

func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
