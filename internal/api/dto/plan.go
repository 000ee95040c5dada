package dto

import (
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"

	"github.com/google/uuid"
)

type CreatePlanRequest struct {
	Name      string `json:"name"`
	TotalDays int    `json:"total_days"`
}

type ListPlansResponse struct {
	Plans []domain.PlanSummary `json:"plans"`
}

type CurrentPlanResponse struct {
	Plan        domain.TravelPlan `json:"plan"`
	SelectedDay int               `json:"selected_day"`
}

type AddLocationRequest struct {
	Name          string              `json:"name"`
	Type          domain.LocationType `json:"type"`
	Coordinates   domain.Coordinate   `json:"coordinates"`
	Day           domain.DayRef       `json:"day_number"`
	VisitDuration *int                `json:"visit_duration"`
}

// Unassigning a day goes through DELETE /plan/locations/{id}/day since a
// JSON null cannot be told apart from an absent field here.
type UpdateLocationRequest struct {
	Name          *string              `json:"name"`
	Type          *domain.LocationType `json:"type"`
	Coordinates   *domain.Coordinate   `json:"coordinates"`
	Day           *int                 `json:"day_number"`
	VisitDuration *int                 `json:"visit_duration"`
}

type UpdateLocationResponse struct {
	Location         domain.Location `json:"location"`
	RecomputedRoutes int             `json:"recomputed_routes"`
}

type RemoveLocationResponse struct {
	RemovedRoutes int `json:"removed_routes"`
}

type SetTotalDaysRequest struct {
	TotalDays int `json:"total_days"`
}

type SetTotalDaysResponse struct {
	TotalDays int         `json:"total_days"`
	Evicted   []uuid.UUID `json:"evicted"`
}

type SelectDayRequest struct {
	Day int `json:"day"`
}

type SelectDayResponse struct {
	SelectedDay int `json:"selected_day"`
}

type AssignDayRequest struct {
	LocationIDs []uuid.UUID `json:"location_ids"`
	Day         int         `json:"day"`
}

type AutoAssignResponse struct {
	Assignments []services.DayAssignment `json:"assignments"`
}
