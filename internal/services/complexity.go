package services

import (
	"trip-planner-service/internal/domain"
)

type ComplexityLevel string

const (
	ComplexitySimple   ComplexityLevel = "simple"
	ComplexityModerate ComplexityLevel = "moderate"
	ComplexityComplex  ComplexityLevel = "complex"
)

// Classification and recommendation thresholds.
const (
	simpleMaxRoutes      = 5
	simpleMaxDistanceKm  = 200
	simpleMaxDaySpan     = 3
	simpleMaxModeChanges = 3

	complexMinRoutes     = 10 // exclusive
	complexMinDistanceKm = 500
	complexMinDaySpan    = 7

	restDurationMin    = 480
	longLegDistanceKm  = 300
	manyModeChanges    = 3
	longTripDaySpan    = 7
	longTripDistanceKm = 500
	manyRoutes         = 10
)

// Recommendation texts. Wording is presentational; the thresholds that
// trigger them are fixed above.
const (
	RecommendRest          = "Total travel time exceeds 8 hours; schedule rest breaks between legs."
	RecommendSplitDays     = "Total distance is long; consider spreading the trip across more days."
	RecommendGroupNearby   = "Many legs planned; consider grouping nearby locations into a single stop."
	RecommendFewerModes    = "Transport mode changes often; consider consolidating legs onto fewer modes."
	RecommendReviewPacing  = "The plan spans more than a week; review the pacing of each day."
	RecommendLongLegAction = "At least one leg is very long; consider a faster mode or an overnight stop."
)

type ComplexityFactors struct {
	RouteCount           int     `json:"route_count"`
	TotalDistance        float64 `json:"total_distance"`
	TotalDuration        int     `json:"total_duration"`
	DaySpan              int     `json:"day_span"`
	TransportModeChanges int     `json:"transport_mode_changes"`
	LongestLeg           float64 `json:"longest_leg"`
}

type Complexity struct {
	Level           ComplexityLevel   `json:"level"`
	Factors         ComplexityFactors `json:"factors"`
	Recommendations []string          `json:"recommendations"`
}

// EvaluateComplexity classifies a set of legs and derives recommendations.
//
// DaySpan counts distinct day values, the cross-day value included.
// TransportModeChanges counts mode transitions between adjacent legs in
// input order.
func EvaluateComplexity(legs []domain.Leg) Complexity {
	f := ComplexityFactors{RouteCount: len(legs)}

	days := make(map[domain.DayRef]struct{})
	for i, l := range legs {
		f.TotalDistance += l.Distance
		f.TotalDuration += l.Duration
		if l.Distance > f.LongestLeg {
			f.LongestLeg = l.Distance
		}
		days[l.Day] = struct{}{}
		if i > 0 && legs[i-1].Mode != l.Mode {
			f.TransportModeChanges++
		}
	}
	f.TotalDistance = roundKm(f.TotalDistance)
	f.DaySpan = len(days)

	return Complexity{
		Level:           classify(f),
		Factors:         f,
		Recommendations: recommend(f),
	}
}

func classify(f ComplexityFactors) ComplexityLevel {
	switch {
	case f.RouteCount <= simpleMaxRoutes &&
		f.TotalDistance <= simpleMaxDistanceKm &&
		f.DaySpan <= simpleMaxDaySpan &&
		f.TransportModeChanges <= simpleMaxModeChanges:
		return ComplexitySimple
	case f.RouteCount > complexMinRoutes ||
		f.TotalDistance > complexMinDistanceKm ||
		f.DaySpan > complexMinDaySpan:
		return ComplexityComplex
	}
	return ComplexityModerate
}

func recommend(f ComplexityFactors) []string {
	out := []string{}
	if f.TotalDuration > restDurationMin {
		out = append(out, RecommendRest)
	}
	if f.TotalDistance > longTripDistanceKm {
		out = append(out, RecommendSplitDays)
	}
	if f.RouteCount > manyRoutes {
		out = append(out, RecommendGroupNearby)
	}
	if f.TransportModeChanges > manyModeChanges {
		out = append(out, RecommendFewerModes)
	}
	if f.DaySpan > longTripDaySpan {
		out = append(out, RecommendReviewPacing)
	}
	if f.LongestLeg > longLegDistanceKm {
		out = append(out, RecommendLongLegAction)
	}
	return out
}
