package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Bounds on the length of a trip.
const (
	MinTotalDays = 1
	MaxTotalDays = 30
)

// TravelPlan is the aggregate owning a trip's locations and routes.
type TravelPlan struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	TotalDays int        `json:"total_days"`
	Locations []Location `json:"locations"`
	Routes    []Route    `json:"routes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PlanSummary is the listing view of a stored plan.
type PlanSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	TotalDays     int       `json:"total_days"`
	LocationCount int       `json:"location_count"`
	RouteCount    int       `json:"route_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p TravelPlan) Summary() PlanSummary {
	return PlanSummary{
		ID:            p.ID,
		Name:          p.Name,
		TotalDays:     p.TotalDays,
		LocationCount: len(p.Locations),
		RouteCount:    len(p.Routes),
		UpdatedAt:     p.UpdatedAt,
	}
}

// ValidateTotalDays enforces MinTotalDays <= n <= MaxTotalDays.
func ValidateTotalDays(n int) error {
	if n < MinTotalDays || n > MaxTotalDays {
		return fmt.Errorf("%w: total days %d outside [%d, %d]", ErrDayOutOfRange, n, MinTotalDays, MaxTotalDays)
	}
	return nil
}

// ValidateDay enforces 1 <= day <= totalDays.
func ValidateDay(day, totalDays int) error {
	if day < 1 || day > totalDays {
		return fmt.Errorf("%w: day %d outside [1, %d]", ErrDayOutOfRange, day, totalDays)
	}
	return nil
}
