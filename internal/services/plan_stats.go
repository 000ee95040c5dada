package services

import (
	"trip-planner-service/internal/domain"
)

type ModeStats struct {
	RouteCount int     `json:"route_count"`
	Distance   float64 `json:"distance"`
	Duration   int     `json:"duration"`
}

type DayStats struct {
	RouteCount int     `json:"route_count"`
	Distance   float64 `json:"distance"`
	Duration   int     `json:"duration"`
}

type PlanStats struct {
	TotalDistance     float64              `json:"total_distance"`
	TotalDuration     int                  `json:"total_duration"`
	RouteCount        int                  `json:"route_count"`
	LocationCount     int                  `json:"location_count"`
	TotalVisitMinutes int                  `json:"total_visit_minutes"`
	ByMode            map[string]ModeStats `json:"by_mode"`
	ByDay             map[int]DayStats     `json:"by_day"`
	Complexity        Complexity           `json:"complexity"`
}

// ComputePlanStats aggregates the routes and locations of a plan. ByDay is
// keyed by route day; cross-day routes go to key 0.
func ComputePlanStats(locations []domain.Location, routes []domain.Route) PlanStats {
	st := PlanStats{
		RouteCount:    len(routes),
		LocationCount: len(locations),
		ByMode:        make(map[string]ModeStats),
		ByDay:         make(map[int]DayStats),
	}

	for _, loc := range locations {
		if loc.VisitDuration != nil {
			st.TotalVisitMinutes += *loc.VisitDuration
		}
	}

	for _, r := range routes {
		st.TotalDistance += r.Distance
		st.TotalDuration += r.Duration

		m := st.ByMode[r.Mode.String()]
		m.RouteCount++
		m.Distance = roundKm(m.Distance + r.Distance)
		m.Duration += r.Duration
		st.ByMode[r.Mode.String()] = m

		d := st.ByDay[r.Day.Key()]
		d.RouteCount++
		d.Distance = roundKm(d.Distance + r.Distance)
		d.Duration += r.Duration
		st.ByDay[r.Day.Key()] = d
	}
	st.TotalDistance = roundKm(st.TotalDistance)
	st.Complexity = EvaluateComplexity(domain.Legs(routes))
	return st
}
