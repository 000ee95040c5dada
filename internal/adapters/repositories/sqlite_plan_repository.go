package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"

	"github.com/google/uuid"
)

// Fixed-width UTC timestamps so that text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite-backed implementation of the PlanRepository port.
// Plans are stored normalized across the plans, locations and routes tables.
type SqlitePlanRepository struct{ DB *sql.DB }

func NewSqlitePlanRepository(db *sql.DB) *SqlitePlanRepository {
	return &SqlitePlanRepository{DB: db}
}

// Insert or replace a plan together with all of its locations and routes.
func (s *SqlitePlanRepository) Save(ctx context.Context, plan domain.TravelPlan) (err error) {
	defer obs.Time(ctx, "plans.sqlite.Save")(&err)

	if s.DB == nil {
		return errors.New("sqlite plan repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save plan: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO plans (id, name, total_days, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		total_days = excluded.total_days,
		updated_at = excluded.updated_at;
	`, plan.ID.String(), plan.Name, plan.TotalDays, formatTime(plan.CreatedAt), formatTime(plan.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save plan: upsert plans row: %w", err)
	}

	for _, table := range []string{"routes", "locations"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE plan_id = ?;", plan.ID.String()); err != nil {
			return fmt.Errorf("save plan: clear %s: %w", table, err)
		}
	}

	locStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO locations (
		id, plan_id, position, name, type, lat, lng,
		day_number, visit_duration, created_at, updated_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("save plan: prepare location insert: %w", err)
	}
	defer locStmt.Close()

	for i, loc := range plan.Locations {
		var day, visit sql.NullInt64
		if n, ok := loc.Day.Number(); ok {
			day = sql.NullInt64{Int64: int64(n), Valid: true}
		}
		if loc.VisitDuration != nil {
			visit = sql.NullInt64{Int64: int64(*loc.VisitDuration), Valid: true}
		}
		_, err := locStmt.ExecContext(ctx,
			loc.ID.String(), plan.ID.String(), i, loc.Name, loc.Type.String(),
			loc.Coordinates.Lat, loc.Coordinates.Lng, day, visit,
			formatTime(loc.CreatedAt), formatTime(loc.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("save plan: insert location %s: %w", loc.ID, err)
		}
	}

	routeStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO routes (
		id, plan_id, position, from_location_id, to_location_id, day_number,
		transport_mode, distance_km, duration_min, path, created_at, updated_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("save plan: prepare route insert: %w", err)
	}
	defer routeStmt.Close()

	for i, r := range plan.Routes {
		path, err := json.Marshal(r.Path)
		if err != nil {
			return fmt.Errorf("save plan: encode path of route %s: %w", r.ID, err)
		}
		_, err = routeStmt.ExecContext(ctx,
			r.ID.String(), plan.ID.String(), i, r.FromLocationID.String(), r.ToLocationID.String(),
			r.Day.Key(), r.Mode.String(), r.Distance, r.Duration, string(path),
			formatTime(r.CreatedAt), formatTime(r.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("save plan: insert route %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save plan: commit tx: %w", err)
	}

	return nil
}

// Return the plan with the given ID, or domain.ErrPlanNotFound.
func (s *SqlitePlanRepository) Load(ctx context.Context, id uuid.UUID) (_ domain.TravelPlan, err error) {
	defer obs.Time(ctx, "plans.sqlite.Load")(&err)

	if s.DB == nil {
		return domain.TravelPlan{}, errors.New("sqlite plan repository: DB is nil")
	}

	plan := domain.TravelPlan{ID: id}
	var created, updated string
	err = s.DB.QueryRowContext(ctx, `
	SELECT name, total_days, created_at, updated_at
	FROM plans
	WHERE id = ?;
	`, id.String()).Scan(&plan.Name, &plan.TotalDays, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TravelPlan{}, fmt.Errorf("load plan: %w: %s", domain.ErrPlanNotFound, id)
	}
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("load plan: query plans table: %w", err)
	}
	if plan.CreatedAt, err = parseTime(created); err != nil {
		return domain.TravelPlan{}, fmt.Errorf("load plan: %w", err)
	}
	if plan.UpdatedAt, err = parseTime(updated); err != nil {
		return domain.TravelPlan{}, fmt.Errorf("load plan: %w", err)
	}

	if plan.Locations, err = s.loadLocations(ctx, id); err != nil {
		return domain.TravelPlan{}, fmt.Errorf("load plan: %w", err)
	}
	if plan.Routes, err = s.loadRoutes(ctx, id); err != nil {
		return domain.TravelPlan{}, fmt.Errorf("load plan: %w", err)
	}

	return plan, nil
}

func (s *SqlitePlanRepository) loadLocations(ctx context.Context, planID uuid.UUID) ([]domain.Location, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, name, type, lat, lng, day_number, visit_duration, created_at, updated_at
	FROM locations
	WHERE plan_id = ?
	ORDER BY position;
	`, planID.String())
	if err != nil {
		return nil, fmt.Errorf("query locations table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Location, 0, 16)
	for rows.Next() {
		var (
			loc                       domain.Location
			id, typ, created, updated string
			day, visit                sql.NullInt64
		)
		if err := rows.Scan(&id, &loc.Name, &typ, &loc.Coordinates.Lat, &loc.Coordinates.Lng, &day, &visit, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan location row: %w", err)
		}
		if loc.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("location id %q: %w", id, err)
		}
		if loc.Type, err = domain.ParseLocationType(typ); err != nil {
			return nil, fmt.Errorf("location %s: %w", id, err)
		}
		if day.Valid {
			loc.Day = domain.Day(int(day.Int64))
		}
		if visit.Valid {
			v := int(visit.Int64)
			loc.VisitDuration = &v
		}
		if loc.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if loc.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("location row iteration: %w", err)
	}

	return out, nil
}

func (s *SqlitePlanRepository) loadRoutes(ctx context.Context, planID uuid.UUID) ([]domain.Route, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, from_location_id, to_location_id, day_number, transport_mode,
		distance_km, duration_min, path, created_at, updated_at
	FROM routes
	WHERE plan_id = ?
	ORDER BY position;
	`, planID.String())
	if err != nil {
		return nil, fmt.Errorf("query routes table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Route, 0, 16)
	for rows.Next() {
		var (
			r                                         domain.Route
			id, from, to, mode, path, created, updated string
			day                                       int
		)
		if err := rows.Scan(&id, &from, &to, &day, &mode, &r.Distance, &r.Duration, &path, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan route row: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("route id %q: %w", id, err)
		}
		if r.FromLocationID, err = uuid.Parse(from); err != nil {
			return nil, fmt.Errorf("route %s from id: %w", id, err)
		}
		if r.ToLocationID, err = uuid.Parse(to); err != nil {
			return nil, fmt.Errorf("route %s to id: %w", id, err)
		}
		if r.Day, err = domain.DayFromInt(day); err != nil {
			return nil, fmt.Errorf("route %s: %w", id, err)
		}
		if r.Mode, err = domain.ParseTransportMode(mode); err != nil {
			return nil, fmt.Errorf("route %s: %w", id, err)
		}
		if err := json.Unmarshal([]byte(path), &r.Path); err != nil {
			return nil, fmt.Errorf("route %s path: %w", id, err)
		}
		if r.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if r.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("route row iteration: %w", err)
	}

	return out, nil
}

// Remove a plan and its children. Returns domain.ErrPlanNotFound when
// there is nothing to delete.
func (s *SqlitePlanRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer obs.Time(ctx, "plans.sqlite.Delete")(&err)

	if s.DB == nil {
		return errors.New("sqlite plan repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete plan: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"routes", "locations"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE plan_id = ?;", id.String()); err != nil {
			return fmt.Errorf("delete plan: clear %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM plans WHERE id = ?;`, id.String())
	if err != nil {
		return fmt.Errorf("delete plan: delete plans row: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete plan: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete plan: %w: %s", domain.ErrPlanNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete plan: commit tx: %w", err)
	}

	return nil
}

// Return summaries of all stored plans, most recently updated first.
func (s *SqlitePlanRepository) List(ctx context.Context) (_ []domain.PlanSummary, err error) {
	defer obs.Time(ctx, "plans.sqlite.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite plan repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		p.id,
		p.name,
		p.total_days,
		(SELECT COUNT(*) FROM locations l WHERE l.plan_id = p.id),
		(SELECT COUNT(*) FROM routes r WHERE r.plan_id = p.id),
		p.updated_at
	FROM plans p
	ORDER BY p.updated_at DESC, p.id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list plans: query plans table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.PlanSummary, 0, 16)
	for rows.Next() {
		var (
			sum         domain.PlanSummary
			id, updated string
		)
		if err := rows.Scan(&id, &sum.Name, &sum.TotalDays, &sum.LocationCount, &sum.RouteCount, &updated); err != nil {
			return nil, fmt.Errorf("list plans: scan row: %w", err)
		}
		if sum.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("list plans: plan id %q: %w", id, err)
		}
		if sum.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, fmt.Errorf("list plans: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plans: row iteration: %w", err)
	}

	return out, nil
}

func formatTime(t time.Time) string { return t.UTC().Format(sqliteTimeLayout) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
