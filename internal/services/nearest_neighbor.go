package services

import (
	"fmt"
	"math"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/geo"
)

// OptimizeOrder orders waypoints with a greedy nearest-neighbor walk.
//
// Starting from start, the unvisited waypoint with the smallest straight-line
// distance to the current location is visited next. Ties go to the waypoint
// that appears first in the input. end, when given, is appended last.
// This is an approximation and makes no attempt at a globally optimal tour.
// mode does not influence the order; it is validated so callers fail early.
func (c *RouteCalculator) OptimizeOrder(
	start domain.Location,
	waypoints []domain.Location,
	end *domain.Location,
	mode domain.TransportMode,
) ([]domain.Location, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("optimize order: %w: %v", domain.ErrInvalidTransportMode, mode)
	}
	if err := start.Coordinates.Validate(); err != nil {
		return nil, fmt.Errorf("optimize order: start %s: %w", start.ID, err)
	}
	for _, w := range waypoints {
		if err := w.Coordinates.Validate(); err != nil {
			return nil, fmt.Errorf("optimize order: waypoint %s: %w", w.ID, err)
		}
	}
	if end != nil {
		if err := end.Coordinates.Validate(); err != nil {
			return nil, fmt.Errorf("optimize order: end %s: %w", end.ID, err)
		}
	}

	order := make([]domain.Location, 0, len(waypoints)+2)
	order = append(order, start)

	visited := make([]bool, len(waypoints))
	current := start.Coordinates

	for range waypoints {
		best := -1
		bestDist := math.Inf(1)

		// Strict comparison keeps the first occurrence on equal distances.
		for i, w := range waypoints {
			if visited[i] {
				continue
			}
			if d := geo.DistanceKm(current, w.Coordinates); d < bestDist {
				best = i
				bestDist = d
			}
		}

		if best < 0 {
			return nil, fmt.Errorf("optimize order: failed to select next waypoint")
		}
		visited[best] = true
		order = append(order, waypoints[best])
		current = waypoints[best].Coordinates
	}

	if end != nil {
		order = append(order, *end)
	}
	return order, nil
}
