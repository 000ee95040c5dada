package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"trip-planner-service/internal/domain"

	"github.com/google/uuid"
)

// PlanRepository keeps saved plans in process memory. Unlike PlanStore it
// is safe for concurrent use. Plans are deep-copied on the way in and out.
type PlanRepository struct {
	mu    sync.RWMutex
	plans map[uuid.UUID]domain.TravelPlan
}

func NewPlanRepository() *PlanRepository {
	return &PlanRepository{plans: make(map[uuid.UUID]domain.TravelPlan)}
}

func (r *PlanRepository) Save(_ context.Context, plan domain.TravelPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[plan.ID] = clonePlan(plan)
	return nil
}

func (r *PlanRepository) Load(_ context.Context, id uuid.UUID) (domain.TravelPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plans[id]
	if !ok {
		return domain.TravelPlan{}, fmt.Errorf("load plan: %w: %s", domain.ErrPlanNotFound, id)
	}
	return clonePlan(p), nil
}

func (r *PlanRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return fmt.Errorf("delete plan: %w: %s", domain.ErrPlanNotFound, id)
	}
	delete(r.plans, id)
	return nil
}

func (r *PlanRepository) List(_ context.Context) ([]domain.PlanSummary, error) {
	r.mu.RLock()
	out := make([]domain.PlanSummary, 0, len(r.plans))
	for _, p := range r.plans {
		out = append(out, p.Summary())
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.PlanSummary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return out, nil
}

func clonePlan(p domain.TravelPlan) domain.TravelPlan {
	out := p
	out.Locations = make([]domain.Location, len(p.Locations))
	for i, l := range p.Locations {
		out.Locations[i] = cloneLocation(l)
	}
	out.Routes = make([]domain.Route, len(p.Routes))
	for i, rt := range p.Routes {
		out.Routes[i] = cloneRoute(rt)
	}
	return out
}
