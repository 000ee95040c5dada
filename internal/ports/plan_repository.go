package ports

import (
	"context"
	"trip-planner-service/internal/domain"

	"github.com/google/uuid"
)

// Port: durable storage for whole plans.
type PlanRepository interface {
	// Insert or replace the plan with the same ID.
	Save(ctx context.Context, plan domain.TravelPlan) error
	// Return domain.ErrPlanNotFound when no plan has that ID.
	Load(ctx context.Context, id uuid.UUID) (domain.TravelPlan, error)
	// Also returns domain.ErrPlanNotFound for unknown IDs.
	Delete(ctx context.Context, id uuid.UUID) error
	// Summaries ordered by most recently updated first.
	List(ctx context.Context) ([]domain.PlanSummary, error)
}
