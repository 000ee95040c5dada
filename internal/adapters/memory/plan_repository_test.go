package memory

import (
	"context"
	"testing"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.PlanRepository = (*PlanRepository)(nil)

func TestPlanRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository()

	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	older := domain.TravelPlan{ID: uuid.New(), Name: "older", TotalDays: 1, UpdatedAt: at}
	newer := domain.TravelPlan{
		ID: uuid.New(), Name: "newer", TotalDays: 2, UpdatedAt: at.Add(time.Hour),
		Locations: []domain.Location{{ID: uuid.New(), Name: "A", Type: domain.Start}},
	}
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	got, err := repo.Load(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Locations[0].Name)

	// Loaded plans do not alias stored ones.
	got.Locations[0].Name = "changed"
	again, err := repo.Load(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Locations[0].Name)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, 1, list[0].LocationCount)
	assert.Equal(t, older.ID, list[1].ID)

	require.NoError(t, repo.Delete(ctx, older.ID))
	assert.ErrorIs(t, repo.Delete(ctx, older.ID), domain.ErrPlanNotFound)
	_, err = repo.Load(ctx, older.ID)
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}
