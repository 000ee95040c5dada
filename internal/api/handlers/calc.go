package handlers

import (
	"net/http"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/services"
)

// CalcHandler exposes the route calculator without touching any plan.
type CalcHandler struct {
	Calc *services.RouteCalculator
}

func (h *CalcHandler) Route(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	est, err := h.Calc.ComputeRoute(req.From, req.To, req.Mode)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, est)
}

func (h *CalcHandler) Reachability(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	writeJSON(w, r, http.StatusOK, h.Calc.CheckReachability(req.From, req.To, req.Mode))
}

func (h *CalcHandler) Alternatives(w http.ResponseWriter, r *http.Request) {
	var req dto.AlternativesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.AlternativesResponse{Alternatives: h.Calc.AlternativeRoutes(req.From, req.To)})
}

func (h *CalcHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.Calc.OptimizeOrder(req.Start, req.Waypoints, req.End, req.Mode)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.OptimizeResponse{Order: order})
}

func (h *CalcHandler) Complexity(w http.ResponseWriter, r *http.Request) {
	var req dto.ComplexityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	writeJSON(w, r, http.StatusOK, services.EvaluateComplexity(req.Legs))
}
