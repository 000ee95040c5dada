package api

import (
	"net/http"
	"trip-planner-service/internal/api/handlers"
	"trip-planner-service/internal/platform/metrics"
	"trip-planner-service/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(ws *handlers.Workspace, calc *services.RouteCalculator, m *metrics.Metrics, log logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware(log))
	r.Use(metricsMiddleware(m))

	calcHandler := &handlers.CalcHandler{Calc: calc}

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", m.Handler())

	r.Route("/calc", func(r chi.Router) {
		r.Post("/route", calcHandler.Route)
		r.Post("/reachability", calcHandler.Reachability)
		r.Post("/alternatives", calcHandler.Alternatives)
		r.Post("/optimize", calcHandler.Optimize)
		r.Post("/complexity", calcHandler.Complexity)
	})

	r.Route("/plans", func(r chi.Router) {
		r.Get("/", ws.ListPlans)
		r.Post("/", ws.CreatePlan)
		r.Post("/import", ws.ImportPlan)
		r.Post("/{id}/load", ws.LoadPlan)
		r.Delete("/{id}", ws.DeletePlan)
	})

	r.Route("/plan", func(r chi.Router) {
		r.Get("/", ws.CurrentPlan)
		r.Post("/save", ws.SavePlan)
		r.Get("/export", ws.ExportPlan)
		r.Get("/stats", ws.PlanStats)

		r.Get("/days", ws.DaySummary)
		r.Put("/days/total", ws.SetTotalDays)
		r.Put("/days/selected", ws.SelectDay)
		r.Post("/days/assign", ws.AssignDay)
		r.Post("/days/auto", ws.AutoAssignDays)

		r.Post("/locations", ws.AddLocation)
		r.Patch("/locations/{id}", ws.UpdateLocation)
		r.Delete("/locations/{id}", ws.RemoveLocation)
		r.Delete("/locations/{id}/day", ws.UnassignDay)

		r.Post("/routes", ws.ConnectLocations)
		r.Post("/routes/auto", ws.AutoConnect)
		r.Patch("/routes/{id}", ws.UpdateRoute)
		r.Delete("/routes/{id}", ws.RemoveRoute)
	})

	return r
}
