package services

import (
	"testing"
	"trip-planner-service/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestChunkAssignDays(t *testing.T) {
	end := newLoc("end", domain.End, 0, 0, domain.Unassigned(), 0)
	w3 := newLoc("w3", domain.Waypoint, 0, 0, domain.Unassigned(), 3)
	w1 := newLoc("w1", domain.Waypoint, 0, 0, domain.Unassigned(), 1)
	start := newLoc("start", domain.Start, 0, 0, domain.Unassigned(), 9)
	w2 := newLoc("w2", domain.Waypoint, 0, 0, domain.Unassigned(), 2)

	// Five locations over two days: chunks of three.
	got := ChunkAssignDays([]domain.Location{end, w3, w1, start, w2}, 2)
	want := []DayAssignment{
		{LocationID: start.ID, Day: 1},
		{LocationID: w1.ID, Day: 1},
		{LocationID: w2.ID, Day: 1},
		{LocationID: w3.ID, Day: 2},
		{LocationID: end.ID, Day: 2},
	}
	assert.Equal(t, want, got)
}

func TestChunkAssignDays_MoreDaysThanLocations(t *testing.T) {
	a := newLoc("a", domain.Waypoint, 0, 0, domain.Unassigned(), 0)
	b := newLoc("b", domain.Waypoint, 0, 0, domain.Unassigned(), 1)

	got := ChunkAssignDays([]domain.Location{a, b}, 5)
	assert.Equal(t, []DayAssignment{{LocationID: a.ID, Day: 1}, {LocationID: b.ID, Day: 2}}, got)
}

func TestChunkAssignDays_StableOnEqualKeys(t *testing.T) {
	locs := make([]domain.Location, 4)
	for i := range locs {
		locs[i] = newLoc("same", domain.Waypoint, 0, 0, domain.Unassigned(), 0)
	}
	got := ChunkAssignDays(locs, 1)

	ids := make([]uuid.UUID, 0, len(got))
	for _, a := range got {
		assert.Equal(t, 1, a.Day)
		ids = append(ids, a.LocationID)
	}
	assert.Equal(t, []uuid.UUID{locs[0].ID, locs[1].ID, locs[2].ID, locs[3].ID}, ids)
}

func TestChunkAssignDays_NeverPastLastDay(t *testing.T) {
	for n := 1; n <= 20; n++ {
		locs := make([]domain.Location, n)
		for i := range locs {
			locs[i] = newLoc("l", domain.Waypoint, 0, 0, domain.Unassigned(), i)
		}
		for days := 1; days <= 7; days++ {
			for _, a := range ChunkAssignDays(locs, days) {
				assert.GreaterOrEqual(t, a.Day, 1)
				assert.LessOrEqual(t, a.Day, days)
			}
		}
	}
}

func TestChunkAssignDays_Empty(t *testing.T) {
	assert.Empty(t, ChunkAssignDays(nil, 3))
}
