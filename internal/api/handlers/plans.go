package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"
	"trip-planner-service/internal/adapters/memory"
	"trip-planner-service/internal/adapters/planjson"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"
)

func (ws *Workspace) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := ws.repo.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ListPlansResponse{Plans: plans})
}

// CreatePlan starts a new empty plan and opens it. Nothing is stored until
// the plan is saved.
func (ws *Workspace) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.TotalDays == 0 {
		req.TotalDays = 1
	}

	store, err := memory.NewPlanStore(req.Name, req.TotalDays, ws.opts...)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.open(store)
	writeJSON(w, r, http.StatusCreated, ws.currentResponse(store))
}

func (ws *Workspace) LoadPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	plan, err := ws.repo.Load(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	store, err := memory.FromPlan(plan, ws.opts...)
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("load plan %s: %w", id, err))
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.open(store)
	writeJSON(w, r, http.StatusOK, ws.currentResponse(store))
}

// DeletePlan removes a stored plan. If it is the open plan it is closed too.
func (ws *Workspace) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := ws.repo.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if store, ok := ws.session.Store(); ok && store.ID() == id {
		ws.session.Unload()
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportPlan stores an exported plan document and opens it.
func (ws *Workspace) ImportPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := planjson.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	store, err := memory.FromPlan(plan, ws.opts...)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := ws.repo.Save(r.Context(), plan); err != nil {
		writeServiceError(w, r, err)
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.open(store)
	writeJSON(w, r, http.StatusCreated, ws.currentResponse(store))
}

func (ws *Workspace) CurrentPlan(w http.ResponseWriter, r *http.Request) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	store, err := ws.current()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ws.currentResponse(store))
}

func (ws *Workspace) SavePlan(w http.ResponseWriter, r *http.Request) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	store, err := ws.current()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	plan := store.Snapshot()
	if err := ws.repo.Save(r.Context(), plan); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, plan.Summary())
}

func (ws *Workspace) ExportPlan(w http.ResponseWriter, r *http.Request) {
	ws.mu.Lock()
	plan, err := ws.snapshot()
	ws.mu.Unlock()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := planjson.Encode(&buf, plan, time.Now().UTC()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="plan-%s.json"`, plan.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (ws *Workspace) PlanStats(w http.ResponseWriter, r *http.Request) {
	ws.mu.Lock()
	plan, err := ws.snapshot()
	ws.mu.Unlock()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, services.ComputePlanStats(plan.Locations, plan.Routes))
}

// snapshot copies the open plan. Callers hold mu.
func (ws *Workspace) snapshot() (domain.TravelPlan, error) {
	store, err := ws.current()
	if err != nil {
		return domain.TravelPlan{}, err
	}
	return store.Snapshot(), nil
}
