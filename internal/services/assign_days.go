package services

import (
	"cmp"
	"slices"
	"trip-planner-service/internal/domain"

	"github.com/google/uuid"
)

// DayAssignment is one location placed on one day.
type DayAssignment struct {
	LocationID uuid.UUID `json:"location_id"`
	Day        int       `json:"day"`
}

// ChunkAssignDays distributes unassigned locations across days.
//
// Locations are sorted by type (start, waypoint, end) and then creation
// time, and cut into contiguous chunks of ceil(len/totalDays). Chunk k goes
// to day min(k+1, totalDays). This clusters by type rather than by
// geography; it is a deterministic shortcut, not a spatial planner.
func ChunkAssignDays(unassigned []domain.Location, totalDays int) []DayAssignment {
	out := make([]DayAssignment, 0, len(unassigned))
	if len(unassigned) == 0 || totalDays < 1 {
		return out
	}

	sorted := slices.Clone(unassigned)
	slices.SortStableFunc(sorted, func(a, b domain.Location) int {
		if c := cmp.Compare(a.Type.Rank(), b.Type.Rank()); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	// Ceiling division: spread locations as evenly as possible across days.
	chunkSize := (len(sorted) + totalDays - 1) / totalDays

	for i, loc := range sorted {
		out = append(out, DayAssignment{LocationID: loc.ID, Day: min(i/chunkSize+1, totalDays)})
	}
	return out
}
