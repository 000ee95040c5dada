package repositories

import (
	"context"
	"fmt"
	"trip-planner-service/internal/adapters/memory"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/ports"

	"github.com/pressly/goose/v3"
)

// Open connects the configured backend and prepares its schema.
// The returned func releases the connection.
func Open(ctx context.Context, cfg config.Config) (ports.PlanRepository, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return memory.NewPlanRepository(), func() {}, nil

	case config.BackendSqlite:
		sqlDB, err := db.OpenSqlite(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := InitSchema(sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		return NewSqlitePlanRepository(sqlDB), func() { _ = sqlDB.Close() }, nil

	case config.BackendPostgres:
		sqlDB, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		_, err = db.Migrate(ctx, sqlDB, goose.DialectPostgres)
		_ = sqlDB.Close()
		if err != nil {
			return nil, nil, err
		}
		pool, err := db.OpenPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgresPlanRepository(pool), pool.Close, nil

	case config.BackendRedis:
		rdb, err := db.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisPlanRepository(rdb), func() { _ = rdb.Close() }, nil
	}
	return nil, nil, fmt.Errorf("open repository: unknown backend %q", cfg.StoreBackend)
}
