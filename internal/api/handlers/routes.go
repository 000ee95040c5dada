package handlers

import (
	"net/http"
	"trip-planner-service/internal/api/dto"
)

func (ws *Workspace) ConnectLocations(w http.ResponseWriter, r *http.Request) {
	var req dto.ConnectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	route, err := ws.router.Connect(req.FromLocationID, req.ToLocationID, req.Mode)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, route)
}

// UpdateRoute switches a route to another transport mode.
func (ws *Workspace) UpdateRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.UpdateRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	route, err := ws.router.ChangeMode(id, req.Mode)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, route)
}

func (ws *Workspace) RemoveRoute(w http.ResponseWriter, r *http.Request) {
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
	if err := store.RemoveRoute(id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AutoConnect replaces every route of the open plan with a generated set.
func (ws *Workspace) AutoConnect(w http.ResponseWriter, r *http.Request) {
	var req dto.AutoConnectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	routes, err := ws.router.AutoConnect(req.Mode, req.ByDay)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.RoutesResponse{Routes: routes})
}
