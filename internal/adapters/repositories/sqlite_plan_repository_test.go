package repositories

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"
	"trip-planner-service/internal/adapters/planjson"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var _ ports.PlanRepository = (*SqlitePlanRepository)(nil)

func newSqliteRepo(t *testing.T) *SqlitePlanRepository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Every pooled connection to :memory: is its own database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, InitSchema(db))
	return NewSqlitePlanRepository(db)
}

func TestSqlitePlanRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()
	repo := newSqliteRepo(t)

	plan := samplePlan("Tokyo", baseTime.Add(time.Hour))
	require.NoError(t, repo.Save(ctx, plan))

	got, err := repo.Load(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan, got)
}

func TestSqlitePlanRepository_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	repo := newSqliteRepo(t)

	plan := samplePlan("Tokyo", baseTime)
	require.NoError(t, repo.Save(ctx, plan))

	plan.Name = "Tokyo again"
	plan.Routes = []domain.Route{}
	plan.Locations = plan.Locations[:1]
	plan.UpdatedAt = baseTime.Add(2 * time.Hour)
	require.NoError(t, repo.Save(ctx, plan))

	got, err := repo.Load(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tokyo again", got.Name)
	assert.Len(t, got.Locations, 1)
	assert.Empty(t, got.Routes)
	assert.Equal(t, plan.UpdatedAt, got.UpdatedAt)
}

func TestSqlitePlanRepository_LoadMissing(t *testing.T) {
	repo := newSqliteRepo(t)

	_, err := repo.Load(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

func TestSqlitePlanRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newSqliteRepo(t)

	plan := samplePlan("Tokyo", baseTime)
	require.NoError(t, repo.Save(ctx, plan))
	require.NoError(t, repo.Delete(ctx, plan.ID))

	_, err := repo.Load(ctx, plan.ID)
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)

	var children int
	require.NoError(t, repo.DB.QueryRow(`SELECT COUNT(*) FROM locations WHERE plan_id = ?`, plan.ID.String()).Scan(&children))
	assert.Zero(t, children)

	assert.ErrorIs(t, repo.Delete(ctx, plan.ID), domain.ErrPlanNotFound)
}

func TestSqlitePlanRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := newSqliteRepo(t)

	older := samplePlan("Older", baseTime)
	newer := samplePlan("Newer", baseTime.Add(24*time.Hour))
	newer.Routes = nil
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, "Newer", got[0].Name)
	assert.Equal(t, 3, got[0].LocationCount)
	assert.Equal(t, 0, got[0].RouteCount)
	assert.Equal(t, newer.UpdatedAt, got[0].UpdatedAt)

	assert.Equal(t, older.Summary(), got[1])
}

func TestSqlitePlanRepository_NilDB(t *testing.T) {
	repo := &SqlitePlanRepository{}
	_, err := repo.List(context.Background())
	assert.Error(t, err)
}

func TestSeedFromJSON(t *testing.T) {
	ctx := context.Background()
	repo := newSqliteRepo(t)

	plan := samplePlan("Seeded", baseTime)
	path := filepath.Join(t.TempDir(), "plan.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, planjson.Encode(f, plan, baseTime))
	require.NoError(t, f.Close())

	require.NoError(t, SeedFromJSON(ctx, repo, path))
	// Seeding the same file again overwrites.
	require.NoError(t, SeedFromJSON(ctx, repo, path))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, plan.ID, got[0].ID)

	assert.Error(t, SeedFromJSON(ctx, repo, filepath.Join(t.TempDir(), "missing.json")))
}
