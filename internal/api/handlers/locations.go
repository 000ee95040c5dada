package handlers

import (
	"net/http"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
)

func (ws *Workspace) AddLocation(w http.ResponseWriter, r *http.Request) {
	var req dto.AddLocationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	store, err := ws.current()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	loc, err := store.AddLocation(domain.NewLocation{
		Name:          req.Name,
		Type:          req.Type,
		Coordinates:   req.Coordinates,
		Day:           req.Day,
		VisitDuration: req.VisitDuration,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, loc)
}

// UpdateLocation edits a location. Moving it re-estimates every route
// touching it; changing its day re-derives route days.
func (ws *Workspace) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.UpdateLocationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	store, err := ws.current()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	patch := domain.LocationPatch{
		Name:          req.Name,
		Type:          req.Type,
		Coordinates:   req.Coordinates,
		VisitDuration: req.VisitDuration,
	}
	if req.Day != nil {
		ref := domain.Day(*req.Day)
		patch.Day = &ref
	}
	// The store checks the whole patch, day included, before writing any field.
	if _, err = store.UpdateLocation(id, patch); err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.UpdateLocationResponse{}
	if req.Coordinates != nil {
		if res.RecomputedRoutes, err = ws.router.RecomputeRoutesFor(id); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	if req.Day != nil {
		if err := ws.days.ReconcileRouteDays(); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	res.Location, _ = store.Location(id)
	writeJSON(w, r, http.StatusOK, res)
}

// RemoveLocation deletes a location together with its routes.
func (ws *Workspace) RemoveLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	store, err := ws.current()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	n, err := store.RemoveLocation(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.RemoveLocationResponse{RemovedRoutes: n})
}
