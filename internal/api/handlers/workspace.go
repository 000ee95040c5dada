package handlers

import (
	"sync"
	"trip-planner-service/internal/adapters/memory"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"github.com/sirupsen/logrus"
)

// Workspace holds the plan currently open for editing and the services
// operating on it. The plan store is not safe for concurrent use, so every
// handler touching it holds mu for the whole request.
type Workspace struct {
	mu      sync.Mutex
	session *memory.Session
	days    *services.DayPlanAssigner
	router  *services.PlanRouter
	repo    ports.PlanRepository
	opts    []memory.Option
	log     logrus.FieldLogger
}

func NewWorkspace(repo ports.PlanRepository, calc *services.RouteCalculator, log logrus.FieldLogger, opts ...memory.Option) *Workspace {
	if log == nil {
		log = logrus.StandardLogger()
	}
	session := memory.NewSession()
	days := services.NewDayPlanAssigner(session, log)
	return &Workspace{
		session: session,
		days:    days,
		router:  services.NewPlanRouter(session, calc, days, log),
		repo:    repo,
		opts:    opts,
		log:     log,
	}
}

// open makes store the current plan. Callers hold mu.
func (ws *Workspace) open(store *memory.PlanStore) {
	ws.session.Load(store)
	ws.days.ResetSelection()
	ws.log.WithFields(logrus.Fields{"plan_id": store.ID(), "name": store.Name()}).Info("plan opened")
}

// current returns the open plan or domain.ErrNoCurrentPlan. Callers hold mu.
func (ws *Workspace) current() (*memory.PlanStore, error) {
	store, ok := ws.session.Store()
	if !ok {
		return nil, domain.ErrNoCurrentPlan
	}
	return store, nil
}

func (ws *Workspace) currentResponse(store *memory.PlanStore) dto.CurrentPlanResponse {
	return dto.CurrentPlanResponse{Plan: store.Snapshot(), SelectedDay: ws.days.SelectedDay()}
}
