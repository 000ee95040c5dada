package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Sorted set of plan ids scored by last update in unix milliseconds.
const redisPlanIndex = "plans"

func redisPlanKey(id string) string { return "plan:" + id }

// Redis-backed implementation of the PlanRepository port.
type RedisPlanRepository struct{ rdb *redis.Client }

func NewRedisPlanRepository(rdb *redis.Client) *RedisPlanRepository {
	return &RedisPlanRepository{rdb: rdb}
}

func (r *RedisPlanRepository) Save(ctx context.Context, plan domain.TravelPlan) (err error) {
	defer obs.Time(ctx, "plans.redis.Save")(&err)

	doc, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("save plan: encode document: %w", err)
	}

	id := plan.ID.String()
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisPlanKey(id), doc, 0)
		pipe.ZAdd(ctx, redisPlanIndex, redis.Z{Score: float64(plan.UpdatedAt.UnixMilli()), Member: id})
		return nil
	})
	if err != nil {
		return fmt.Errorf("save plan: %w", err)
	}

	return nil
}

func (r *RedisPlanRepository) Load(ctx context.Context, id uuid.UUID) (_ domain.TravelPlan, err error) {
	defer obs.Time(ctx, "plans.redis.Load")(&err)

	doc, err := r.rdb.Get(ctx, redisPlanKey(id.String())).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.TravelPlan{}, fmt.Errorf("load plan: %w: %s", domain.ErrPlanNotFound, id)
	}
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("load plan: %w", err)
	}

	var plan domain.TravelPlan
	if err := json.Unmarshal(doc, &plan); err != nil {
		return domain.TravelPlan{}, fmt.Errorf("load plan: decode document %s: %w", id, err)
	}

	return plan, nil
}

func (r *RedisPlanRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer obs.Time(ctx, "plans.redis.Delete")(&err)

	var del *redis.IntCmd
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, redisPlanKey(id.String()))
		pipe.ZRem(ctx, redisPlanIndex, id.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("delete plan: %w: %s", domain.ErrPlanNotFound, id)
	}

	return nil
}

func (r *RedisPlanRepository) List(ctx context.Context) (_ []domain.PlanSummary, err error) {
	defer obs.Time(ctx, "plans.redis.List")(&err)

	ids, err := r.rdb.ZRevRange(ctx, redisPlanIndex, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list plans: read index: %w", err)
	}
	if len(ids) == 0 {
		return []domain.PlanSummary{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisPlanKey(id)
	}
	docs, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list plans: read documents: %w", err)
	}

	out := make([]domain.PlanSummary, 0, len(docs))
	for i, raw := range docs {
		// Skip index entries whose document was removed out of band.
		s, ok := raw.(string)
		if !ok {
			continue
		}
		var plan domain.TravelPlan
		if err := json.Unmarshal([]byte(s), &plan); err != nil {
			return nil, fmt.Errorf("list plans: decode document %s: %w", ids[i], err)
		}
		out = append(out, plan.Summary())
	}

	return out, nil
}
