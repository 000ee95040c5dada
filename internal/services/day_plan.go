package services

import (
	"fmt"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DayPlanAssigner keeps location days and route days of the current plan
// consistent. Every operation that may move a location between days ends
// with ReconcileRouteDays.
//
// It also tracks the day currently selected in the planner view. It is not
// safe for concurrent use; callers serialize access to the plan.
type DayPlanAssigner struct {
	session     ports.PlanSession
	log         logrus.FieldLogger
	selectedDay int
}

func NewDayPlanAssigner(session ports.PlanSession, log logrus.FieldLogger) *DayPlanAssigner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DayPlanAssigner{session: session, log: log, selectedDay: 1}
}

// DayPlan lists the locations assigned to one day.
type DayPlan struct {
	Day         int         `json:"day"`
	LocationIDs []uuid.UUID `json:"location_ids"`
}

type DayPlanSummary struct {
	TotalDays   int         `json:"total_days"`
	SelectedDay int         `json:"selected_day"`
	Days        []DayPlan   `json:"days"`
	Unassigned  []uuid.UUID `json:"unassigned"`
}

func (a *DayPlanAssigner) current() (ports.PlanStore, error) {
	store, ok := a.session.Current()
	if !ok {
		return nil, domain.ErrNoCurrentPlan
	}
	return store, nil
}

// AssignToDay puts one location on day.
func (a *DayPlanAssigner) AssignToDay(id uuid.UUID, day int) error {
	store, err := a.current()
	if err != nil {
		return fmt.Errorf("assign to day: %w", err)
	}
	if err := domain.ValidateDay(day, store.TotalDays()); err != nil {
		return fmt.Errorf("assign to day: %w", err)
	}
	ref := domain.Day(day)
	if _, err := store.UpdateLocation(id, domain.LocationPatch{Day: &ref}); err != nil {
		return fmt.Errorf("assign to day: %w", err)
	}
	return a.reconcile(store)
}

// AssignMultipleToDay puts every listed location on day. The whole batch is
// validated before the first write; on any failure no location changes.
func (a *DayPlanAssigner) AssignMultipleToDay(ids []uuid.UUID, day int) error {
	store, err := a.current()
	if err != nil {
		return fmt.Errorf("assign multiple to day: %w", err)
	}
	if err := domain.ValidateDay(day, store.TotalDays()); err != nil {
		return fmt.Errorf("assign multiple to day: %w", err)
	}

	previous := make(map[uuid.UUID]domain.DayRef)
	for _, loc := range store.Locations() {
		previous[loc.ID] = loc.Day
	}
	for _, id := range ids {
		if _, ok := previous[id]; !ok {
			return fmt.Errorf("assign multiple to day: %w: location %s", domain.ErrNotFound, id)
		}
	}

	ref := domain.Day(day)
	for i, id := range ids {
		if _, err := store.UpdateLocation(id, domain.LocationPatch{Day: &ref}); err != nil {
			a.restoreDays(store, ids[:i], previous)
			return fmt.Errorf("assign multiple to day: %w", err)
		}
	}
	return a.reconcile(store)
}

func (a *DayPlanAssigner) restoreDays(store ports.PlanStore, ids []uuid.UUID, previous map[uuid.UUID]domain.DayRef) {
	for _, id := range ids {
		day := previous[id]
		if _, err := store.UpdateLocation(id, domain.LocationPatch{Day: &day}); err != nil {
			a.log.WithError(err).WithField("location_id", id).Error("restore day after failed batch")
		}
	}
}

// RemoveFromDay marks a location unassigned.
func (a *DayPlanAssigner) RemoveFromDay(id uuid.UUID) error {
	store, err := a.current()
	if err != nil {
		return fmt.Errorf("remove from day: %w", err)
	}
	ref := domain.Unassigned()
	if _, err := store.UpdateLocation(id, domain.LocationPatch{Day: &ref}); err != nil {
		return fmt.Errorf("remove from day: %w", err)
	}
	return a.reconcile(store)
}

// SetTotalDays changes the trip length. When the trip shrinks, locations on
// days beyond the new length become unassigned and are returned.
func (a *DayPlanAssigner) SetTotalDays(n int) ([]uuid.UUID, error) {
	store, err := a.current()
	if err != nil {
		return nil, fmt.Errorf("set total days: %w", err)
	}
	if err := domain.ValidateTotalDays(n); err != nil {
		return nil, fmt.Errorf("set total days: %w", err)
	}

	evicted := []uuid.UUID{}
	if n < store.TotalDays() {
		unassigned := domain.Unassigned()
		for _, loc := range store.Locations() {
			d, ok := loc.Day.Number()
			if !ok || d <= n {
				continue
			}
			if _, err := store.UpdateLocation(loc.ID, domain.LocationPatch{Day: &unassigned}); err != nil {
				return nil, fmt.Errorf("set total days: evict %s: %w", loc.ID, err)
			}
			evicted = append(evicted, loc.ID)
		}
	}
	if err := store.SetTotalDays(n); err != nil {
		return nil, fmt.Errorf("set total days: %w", err)
	}
	if len(evicted) > 0 {
		a.log.WithFields(logrus.Fields{"total_days": n, "evicted": len(evicted)}).Info("locations evicted from removed days")
	}
	if a.selectedDay > n {
		a.selectedDay = 1
	}
	if err := a.reconcile(store); err != nil {
		return nil, err
	}
	return evicted, nil
}

// SelectDay sets the day shown in the planner view.
func (a *DayPlanAssigner) SelectDay(day int) error {
	store, err := a.current()
	if err != nil {
		return fmt.Errorf("select day: %w", err)
	}
	if err := domain.ValidateDay(day, store.TotalDays()); err != nil {
		return fmt.Errorf("select day: %w", err)
	}
	a.selectedDay = day
	return nil
}

func (a *DayPlanAssigner) SelectedDay() int { return a.selectedDay }

// ResetSelection selects day 1; used when another plan is opened.
func (a *DayPlanAssigner) ResetSelection() { a.selectedDay = 1 }

// ReconcileRouteDays sets every route's day to the day shared by both of its
// endpoints, or cross-day when they differ or either is unassigned.
func (a *DayPlanAssigner) ReconcileRouteDays() error {
	store, err := a.current()
	if err != nil {
		return fmt.Errorf("reconcile route days: %w", err)
	}
	return a.reconcile(store)
}

func (a *DayPlanAssigner) reconcile(store ports.PlanStore) error {
	days := make(map[uuid.UUID]domain.DayRef)
	for _, loc := range store.Locations() {
		days[loc.ID] = loc.Day
	}

	type change struct {
		id  uuid.UUID
		day domain.DayRef
	}
	var changes []change
	for _, r := range store.Routes() {
		from, okFrom := days[r.FromLocationID]
		to, okTo := days[r.ToLocationID]
		if !okFrom || !okTo {
			return fmt.Errorf("reconcile route days: %w: route %s", domain.ErrMissingEndpoint, r.ID)
		}
		want := domain.CrossDay()
		if n, ok := from.Number(); ok && from == to {
			want = domain.Day(n)
		}
		if r.Day != want {
			changes = append(changes, change{id: r.ID, day: want})
		}
	}

	for _, c := range changes {
		day := c.day
		if _, err := store.UpdateRoute(c.id, domain.RoutePatch{Day: &day}); err != nil {
			return fmt.Errorf("reconcile route days: %w", err)
		}
	}
	return nil
}

// AutoAssign places every unassigned location on a day using
// ChunkAssignDays and returns the assignments made.
func (a *DayPlanAssigner) AutoAssign() ([]DayAssignment, error) {
	store, err := a.current()
	if err != nil {
		return nil, fmt.Errorf("auto assign: %w", err)
	}

	var unassigned []domain.Location
	for _, loc := range store.Locations() {
		if loc.Day.IsUnassigned() {
			unassigned = append(unassigned, loc)
		}
	}

	assignments := ChunkAssignDays(unassigned, store.TotalDays())
	for _, as := range assignments {
		ref := domain.Day(as.Day)
		if _, err := store.UpdateLocation(as.LocationID, domain.LocationPatch{Day: &ref}); err != nil {
			return nil, fmt.Errorf("auto assign: %w", err)
		}
	}
	if err := a.reconcile(store); err != nil {
		return nil, err
	}
	return assignments, nil
}

// DaySummary lists the locations of every day of the current plan.
func (a *DayPlanAssigner) DaySummary() (DayPlanSummary, error) {
	store, err := a.current()
	if err != nil {
		return DayPlanSummary{}, fmt.Errorf("day summary: %w", err)
	}

	total := store.TotalDays()
	out := DayPlanSummary{
		TotalDays:   total,
		SelectedDay: a.selectedDay,
		Days:        make([]DayPlan, total),
		Unassigned:  []uuid.UUID{},
	}
	for i := range out.Days {
		out.Days[i] = DayPlan{Day: i + 1, LocationIDs: []uuid.UUID{}}
	}
	for _, loc := range store.Locations() {
		d, ok := loc.Day.Number()
		if !ok || d > total {
			out.Unassigned = append(out.Unassigned, loc.ID)
			continue
		}
		out.Days[d-1].LocationIDs = append(out.Days[d-1].LocationIDs, loc.ID)
	}
	return out, nil
}
