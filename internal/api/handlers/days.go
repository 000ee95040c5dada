package handlers

import (
	"net/http"
	"trip-planner-service/internal/api/dto"
)

func (ws *Workspace) DaySummary(w http.ResponseWriter, r *http.Request) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	sum, err := ws.days.DaySummary()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sum)
}

func (ws *Workspace) SetTotalDays(w http.ResponseWriter, r *http.Request) {
	var req dto.SetTotalDaysRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	evicted, err := ws.days.SetTotalDays(req.TotalDays)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.SetTotalDaysResponse{TotalDays: req.TotalDays, Evicted: evicted})
}

func (ws *Workspace) SelectDay(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectDayRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	if err := ws.days.SelectDay(req.Day); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.SelectDayResponse{SelectedDay: ws.days.SelectedDay()})
}

// AssignDay moves every listed location onto one day. Either all of them
// move or none do.
func (ws *Workspace) AssignDay(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignDayRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	if err := ws.days.AssignMultipleToDay(req.LocationIDs, req.Day); err != nil {
		writeServiceError(w, r, err)
		return
	}
	sum, err := ws.days.DaySummary()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sum)
}

func (ws *Workspace) AutoAssignDays(w http.ResponseWriter, r *http.Request) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	assignments, err := ws.days.AutoAssign()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.AutoAssignResponse{Assignments: assignments})
}

func (ws *Workspace) UnassignDay(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	if err := ws.days.RemoveFromDay(id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	store, err := ws.current()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	loc, _ := store.Location(id)
	writeJSON(w, r, http.StatusOK, loc)
}
