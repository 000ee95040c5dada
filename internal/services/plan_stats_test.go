package services

import (
	"testing"
	"trip-planner-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func route(km float64, minutes int, mode domain.TransportMode, day domain.DayRef) domain.Route {
	return domain.Route{Leg: leg(km, minutes, mode, day)}
}

func TestComputePlanStats(t *testing.T) {
	visit := 45
	locations := []domain.Location{
		newLoc("a", domain.Start, 0, 0, domain.Day(1), 0),
		newLoc("b", domain.Waypoint, 0, 0, domain.Day(1), 1),
		newLoc("c", domain.End, 0, 0, domain.Day(2), 2),
	}
	locations[1].VisitDuration = &visit

	routes := []domain.Route{
		route(10.1, 20, domain.Driving, domain.Day(1)),
		route(2.2, 30, domain.Walking, domain.Day(1)),
		route(40.35, 60, domain.Driving, domain.CrossDay()),
	}

	st := ComputePlanStats(locations, routes)
	assert.Equal(t, 3, st.RouteCount)
	assert.Equal(t, 3, st.LocationCount)
	assert.Equal(t, 52.65, st.TotalDistance)
	assert.Equal(t, 110, st.TotalDuration)
	assert.Equal(t, 45, st.TotalVisitMinutes)

	assert.Equal(t, map[string]ModeStats{
		"driving": {RouteCount: 2, Distance: 50.45, Duration: 80},
		"walking": {RouteCount: 1, Distance: 2.2, Duration: 30},
	}, st.ByMode)
	assert.Equal(t, map[int]DayStats{
		0: {RouteCount: 1, Distance: 40.35, Duration: 60},
		1: {RouteCount: 2, Distance: 12.3, Duration: 50},
	}, st.ByDay)

	assert.Equal(t, ComplexitySimple, st.Complexity.Level)
	assert.Equal(t, 2, st.Complexity.Factors.DaySpan)
	assert.Equal(t, 2, st.Complexity.Factors.TransportModeChanges)
}

func TestComputePlanStats_Empty(t *testing.T) {
	st := ComputePlanStats(nil, nil)
	assert.Zero(t, st.TotalDistance)
	assert.Zero(t, st.RouteCount)
	assert.Empty(t, st.ByMode)
	assert.Empty(t, st.ByDay)
	assert.Equal(t, ComplexitySimple, st.Complexity.Level)
}
