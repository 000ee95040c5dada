package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx used by the repository.
// Both *pgxpool.Pool and pgxmock pools satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres-backed implementation of the PlanRepository port.
// Each plan is one row; locations and routes live in a JSONB document.
type PostgresPlanRepository struct{ db Querier }

func NewPostgresPlanRepository(db Querier) *PostgresPlanRepository {
	return &PostgresPlanRepository{db: db}
}

func (p *PostgresPlanRepository) Save(ctx context.Context, plan domain.TravelPlan) (err error) {
	defer obs.Time(ctx, "plans.postgres.Save")(&err)

	if plan.Locations == nil {
		plan.Locations = []domain.Location{}
	}
	if plan.Routes == nil {
		plan.Routes = []domain.Route{}
	}
	doc, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("save plan: encode document: %w", err)
	}

	_, err = p.db.Exec(ctx, `
	INSERT INTO plans (id, name, total_days, document, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		total_days = EXCLUDED.total_days,
		document = EXCLUDED.document,
		updated_at = EXCLUDED.updated_at`,
		plan.ID.String(), plan.Name, plan.TotalDays, doc, plan.CreatedAt, plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save plan: upsert plans row: %w", err)
	}

	return nil
}

func (p *PostgresPlanRepository) Load(ctx context.Context, id uuid.UUID) (_ domain.TravelPlan, err error) {
	defer obs.Time(ctx, "plans.postgres.Load")(&err)

	var doc []byte
	err = p.db.QueryRow(ctx, `SELECT document FROM plans WHERE id = $1`, id.String()).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TravelPlan{}, fmt.Errorf("load plan: %w: %s", domain.ErrPlanNotFound, id)
	}
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("load plan: query plans table: %w", err)
	}

	var plan domain.TravelPlan
	if err := json.Unmarshal(doc, &plan); err != nil {
		return domain.TravelPlan{}, fmt.Errorf("load plan: decode document %s: %w", id, err)
	}

	return plan, nil
}

func (p *PostgresPlanRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer obs.Time(ctx, "plans.postgres.Delete")(&err)

	tag, err := p.db.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete plan: %w: %s", domain.ErrPlanNotFound, id)
	}

	return nil
}

func (p *PostgresPlanRepository) List(ctx context.Context) (_ []domain.PlanSummary, err error) {
	defer obs.Time(ctx, "plans.postgres.List")(&err)

	rows, err := p.db.Query(ctx, `
	SELECT id, name, total_days,
		jsonb_array_length(document->'locations'),
		jsonb_array_length(document->'routes'),
		updated_at
	FROM plans
	ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list plans: query plans table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.PlanSummary, 0, 16)
	for rows.Next() {
		var (
			sum     domain.PlanSummary
			id      string
			updated time.Time
		)
		if err := rows.Scan(&id, &sum.Name, &sum.TotalDays, &sum.LocationCount, &sum.RouteCount, &updated); err != nil {
			return nil, fmt.Errorf("list plans: scan row: %w", err)
		}
		if sum.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("list plans: plan id %q: %w", id, err)
		}
		sum.UpdatedAt = updated.UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plans: row iteration: %w", err)
	}

	return out, nil
}
