package services

import (
	"testing"
	"time"
	"trip-planner-service/internal/adapters/memory"
	"trip-planner-service/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

// newLoc builds a location created minute minutes after baseTime.
func newLoc(name string, typ domain.LocationType, lat, lng float64, day domain.DayRef, minute int) domain.Location {
	return domain.Location{
		ID:          uuid.New(),
		Name:        name,
		Type:        typ,
		Coordinates: domain.Coordinate{Lat: lat, Lng: lng},
		Day:         day,
		CreatedAt:   baseTime.Add(time.Duration(minute) * time.Minute),
	}
}

func fixedCalc() *RouteCalculator {
	return NewRouteCalculator(WithJitter(func() float64 { return 0.5 }))
}

// tickingClock advances one second per call so creation order is stable.
func tickingClock() func() time.Time {
	t := baseTime
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

type planFixture struct {
	store   *memory.PlanStore
	session *memory.Session
	days    *DayPlanAssigner
	router  *PlanRouter
}

func newPlanFixture(t *testing.T, totalDays int) *planFixture {
	t.Helper()
	store, err := memory.NewPlanStore("trip", totalDays, memory.WithClock(tickingClock()))
	require.NoError(t, err)

	session := memory.NewSession()
	session.Load(store)

	days := NewDayPlanAssigner(session, nil)
	return &planFixture{
		store:   store,
		session: session,
		days:    days,
		router:  NewPlanRouter(session, fixedCalc(), days, nil),
	}
}

func (f *planFixture) add(t *testing.T, name string, typ domain.LocationType, lat, lng float64, day domain.DayRef) domain.Location {
	t.Helper()
	loc, err := f.store.AddLocation(domain.NewLocation{
		Name:        name,
		Type:        typ,
		Coordinates: domain.Coordinate{Lat: lat, Lng: lng},
		Day:         day,
	})
	require.NoError(t, err)
	return loc
}

func (f *planFixture) location(t *testing.T, id uuid.UUID) domain.Location {
	t.Helper()
	loc, ok := f.store.Location(id)
	require.True(t, ok, "location %s", id)
	return loc
}

func (f *planFixture) route(t *testing.T, id uuid.UUID) domain.Route {
	t.Helper()
	r, ok := f.store.Route(id)
	require.True(t, ok, "route %s", id)
	return r
}
