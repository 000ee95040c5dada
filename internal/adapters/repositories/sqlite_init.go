package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"trip-planner-service/internal/adapters/planjson"
	"trip-planner-service/internal/ports"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPlansQuery := `
	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		total_days INTEGER NOT NULL CHECK (total_days BETWEEN 1 AND 30),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	// day_number NULL means unassigned.
	createLocationsQuery := `
	CREATE TABLE IF NOT EXISTS locations (
		id TEXT PRIMARY KEY,
		plan_id TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		lat REAL NOT NULL,
		lng REAL NOT NULL,
		day_number INTEGER,
		visit_duration INTEGER,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	// day_number 0 means the route crosses days.
	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		id TEXT PRIMARY KEY,
		plan_id TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		from_location_id TEXT NOT NULL,
		to_location_id TEXT NOT NULL,
		day_number INTEGER NOT NULL,
		transport_mode TEXT NOT NULL,
		distance_km REAL NOT NULL,
		duration_min INTEGER NOT NULL,
		path TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (plan_id, from_location_id, to_location_id)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_locations_plan_position
	ON locations(plan_id, position);
	`

	statements := []string{
		createPlansQuery,
		createLocationsQuery,
		createRoutesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Import a plan export file into repo. The plan keeps the id it was
// exported with, so seeding twice overwrites instead of duplicating.
func SeedFromJSON(ctx context.Context, repo ports.PlanRepository, jsonPath string) error {
	f, err := os.Open(jsonPath)
	if err != nil {
		return fmt.Errorf("seed plan: open %q: %w", jsonPath, err)
	}
	defer f.Close()

	plan, err := planjson.Decode(f)
	if err != nil {
		return fmt.Errorf("seed plan: %q: %w", jsonPath, err)
	}

	if err := repo.Save(ctx, plan); err != nil {
		return fmt.Errorf("seed plan: save %s: %w", plan.ID, err)
	}

	return nil
}
