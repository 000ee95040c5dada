package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/api/handlers"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/metrics"
	"trip-planner-service/internal/services"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type testServer struct {
	handler http.Handler
	metrics *metrics.Metrics
	hook    *test.Hook
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repositories.InitSchema(db))

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	m := metrics.New()
	calc := services.NewRouteCalculator(
		services.WithJitter(func() float64 { return 0.5 }),
		services.WithEstimateObserver(m.ObserveEstimate),
	)
	ws := handlers.NewWorkspace(repositories.NewSqlitePlanRepository(db), calc, logger)

	return &testServer{handler: NewRouter(ws, calc, m, logger), metrics: m, hook: hook}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	case []byte:
		buf.Write(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, rec)["error"]
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/health", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCalcRoute(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/calc/route", `{
		"from": {"lat": 0, "lng": 0},
		"to": {"lat": 1, "lng": 0},
		"transport_mode": "driving"
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	est := decode[domain.RouteEstimate](t, rec)
	assert.Equal(t, 155.67, est.Distance)
	assert.Equal(t, 239, est.Duration)
	assert.Equal(t, domain.Driving, est.Mode)
	assert.Len(t, est.Path, 3)
}

func TestCalcRoute_Rejects(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{"from":`, http.StatusBadRequest},
		{"unknown field", `{"from": {"lat": 0, "lng": 0}, "speed": 3}`, http.StatusBadRequest},
		{"two objects", `{} {}`, http.StatusBadRequest},
		{"bad mode", `{"from": {"lat": 0, "lng": 0}, "to": {"lat": 1, "lng": 0}, "transport_mode": "rocket"}`, http.StatusUnprocessableEntity},
		{"bad coordinate", `{"from": {"lat": 91, "lng": 0}, "to": {"lat": 1, "lng": 0}, "transport_mode": "walking"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/calc/route", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, errorOf(t, rec))
		})
	}
}

func TestCalcReachability(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/calc/reachability", `{
		"from": {"lat": 0, "lng": 0},
		"to": {"lat": 0, "lng": 5.4},
		"transport_mode": "walking"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[services.Reachability](t, rec)
	assert.False(t, got.Accessible)
	assert.NotEmpty(t, got.Reason)
	assert.Equal(t, []domain.TransportMode{domain.Driving, domain.Transit}, got.Alternatives)
}

func TestCalcAlternativesAndComplexity(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/calc/alternatives", `{"from": {"lat": 0, "lng": 0}, "to": {"lat": 0, "lng": 0.1}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	alts := decode[dto.AlternativesResponse](t, rec)
	assert.Len(t, alts.Alternatives, len(domain.AllTransportModes))

	rec = s.do(t, http.MethodPost, "/calc/complexity", `{"legs": [
		{"day_number": 1, "distance": 10, "duration": 20, "transport_mode": "driving"},
		{"day_number": 1, "distance": 2, "duration": 25, "transport_mode": "walking"}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	c := decode[services.Complexity](t, rec)
	assert.Equal(t, services.ComplexitySimple, c.Level)
	assert.Equal(t, 2, c.Factors.RouteCount)
	assert.Equal(t, 1, c.Factors.TransportModeChanges)
}

func TestCalcOptimize(t *testing.T) {
	s := newTestServer(t)

	far, near := uuid.New(), uuid.New()
	rec := s.do(t, http.MethodPost, "/calc/optimize", map[string]any{
		"start": map[string]any{"name": "S", "type": "start", "coordinates": map[string]float64{"lat": 0, "lng": 0}},
		"waypoints": []map[string]any{
			{"id": far.String(), "name": "far", "type": "waypoint", "coordinates": map[string]float64{"lat": 10, "lng": 0}},
			{"id": near.String(), "name": "near", "type": "waypoint", "coordinates": map[string]float64{"lat": 1, "lng": 0}},
		},
		"transport_mode": "walking",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	order := decode[dto.OptimizeResponse](t, rec).Order
	require.Len(t, order, 3)
	assert.Equal(t, "S", order[0].Name)
	assert.Equal(t, near, order[1].ID)
	assert.Equal(t, far, order[2].ID)
}

func addLocation(t *testing.T, s *testServer, name, typ string, lng float64, day any) domain.Location {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/plan/locations", map[string]any{
		"name":        name,
		"type":        typ,
		"coordinates": map[string]float64{"lat": 0, "lng": lng},
		"day_number":  day,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[domain.Location](t, rec)
}

func TestPlanWorkflow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/plan", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, errorOf(t, rec), "no current plan")

	rec = s.do(t, http.MethodPost, "/plans", dto.CreatePlanRequest{Name: "Coast", TotalDays: 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[dto.CurrentPlanResponse](t, rec)
	assert.Equal(t, "Coast", created.Plan.Name)
	assert.Equal(t, 1, created.SelectedDay)

	start := addLocation(t, s, "Hotel", "start", 0, 1)
	museum := addLocation(t, s, "Museum", "waypoint", 0.1, 1)
	beach := addLocation(t, s, "Beach", "end", 0.2, 2)

	rec = s.do(t, http.MethodPost, "/plan/locations", map[string]any{
		"name": "Second hotel", "type": "start", "coordinates": map[string]float64{"lat": 1, "lng": 1},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/plan/routes/auto", dto.AutoConnectRequest{Mode: domain.Driving})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	routes := decode[dto.RoutesResponse](t, rec).Routes
	require.Len(t, routes, 2)
	assert.Equal(t, start.ID, routes[0].FromLocationID)
	assert.Equal(t, museum.ID, routes[0].ToLocationID)
	assert.Equal(t, domain.Day(1), routes[0].Day)
	assert.Equal(t, beach.ID, routes[1].ToLocationID)
	assert.True(t, routes[1].Day.IsCrossDay())

	rec = s.do(t, http.MethodPost, "/plan/routes", dto.ConnectRequest{
		FromLocationID: start.ID, ToLocationID: museum.ID, Mode: domain.Walking,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPatch, "/plan/routes/"+routes[0].ID.String(), `{"transport_mode": "walking"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.Walking, decode[domain.Route](t, rec).Mode)

	rec = s.do(t, http.MethodGet, "/plan/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[services.PlanStats](t, rec)
	assert.Equal(t, 2, stats.RouteCount)
	assert.Equal(t, 3, stats.LocationCount)
	assert.Contains(t, stats.ByMode, "walking")
	assert.Contains(t, stats.ByMode, "driving")

	rec = s.do(t, http.MethodPut, "/plan/days/selected", dto.SelectDayRequest{Day: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPut, "/plan/days/total", dto.SetTotalDaysRequest{TotalDays: 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []uuid.UUID{beach.ID}, decode[dto.SetTotalDaysResponse](t, rec).Evicted)

	rec = s.do(t, http.MethodGet, "/plan/days", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	days := decode[services.DayPlanSummary](t, rec)
	assert.Equal(t, 1, days.SelectedDay)
	assert.Equal(t, []uuid.UUID{beach.ID}, days.Unassigned)
	require.Len(t, days.Days, 1)
	assert.Equal(t, []uuid.UUID{start.ID, museum.ID}, days.Days[0].LocationIDs)

	rec = s.do(t, http.MethodPut, "/plan/days/total", dto.SetTotalDaysRequest{TotalDays: 31})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPost, "/plan/save", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[domain.PlanSummary](t, rec)
	assert.Equal(t, 3, saved.LocationCount)

	rec = s.do(t, http.MethodGet, "/plans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[dto.ListPlansResponse](t, rec).Plans
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)

	rec = s.do(t, http.MethodDelete, "/plans/"+saved.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodGet, "/plan", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/plans/"+saved.ID.String(), nil).Code)
}

func TestLocationEdits(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/plans", dto.CreatePlanRequest{Name: "Edits", TotalDays: 3}).Code)

	a := addLocation(t, s, "A", "start", 0, 1)
	b := addLocation(t, s, "B", "waypoint", 0.1, nil)

	rec := s.do(t, http.MethodPost, "/plan/routes", dto.ConnectRequest{FromLocationID: a.ID, ToLocationID: b.ID, Mode: domain.Driving})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	route := decode[domain.Route](t, rec)
	assert.True(t, route.Day.IsCrossDay())

	rec = s.do(t, http.MethodPatch, "/plan/locations/"+b.ID.String(), `{"coordinates": {"lat": 0, "lng": 0.5}, "day_number": 1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	upd := decode[dto.UpdateLocationResponse](t, rec)
	assert.Equal(t, 1, upd.RecomputedRoutes)
	assert.Equal(t, domain.Day(1), upd.Location.Day)
	assert.Equal(t, 0.5, upd.Location.Coordinates.Lng)

	cur := decode[dto.CurrentPlanResponse](t, s.do(t, http.MethodGet, "/plan", nil))
	require.Len(t, cur.Plan.Routes, 1)
	assert.Equal(t, domain.Day(1), cur.Plan.Routes[0].Day)
	assert.Greater(t, cur.Plan.Routes[0].Distance, route.Distance)

	rec = s.do(t, http.MethodDelete, "/plan/locations/"+b.ID.String()+"/day", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[domain.Location](t, rec).Day.IsUnassigned())

	rec = s.do(t, http.MethodPost, "/plan/days/assign", dto.AssignDayRequest{LocationIDs: []uuid.UUID{a.ID, b.ID}, Day: 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, decode[services.DayPlanSummary](t, rec).Days[2].LocationIDs)

	rec = s.do(t, http.MethodPost, "/plan/days/assign", dto.AssignDayRequest{LocationIDs: []uuid.UUID{a.ID, uuid.New()}, Day: 2})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPatch, "/plan/locations/"+uuid.New().String(), `{"name": "ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPatch, "/plan/locations/not-a-uuid", `{"name": "ghost"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, "/plan/locations/"+a.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[dto.RemoveLocationResponse](t, rec).RemovedRoutes)

	rec = s.do(t, http.MethodDelete, "/plan/routes/"+route.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateLocation_RejectedPatchWritesNothing(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/plans", dto.CreatePlanRequest{Name: "Atomic", TotalDays: 2}).Code)

	loc := addLocation(t, s, "orig", "waypoint", 1, nil)

	bodies := []string{
		`{"name": "changed", "coordinates": {"lat": 5, "lng": 5}, "day_number": 9}`,
		`{"name": "changed", "visit_duration": 30, "day_number": 0}`,
		`{"name": "changed", "coordinates": {"lat": 95, "lng": 5}, "day_number": 1}`,
	}
	for _, body := range bodies {
		rec := s.do(t, http.MethodPatch, "/plan/locations/"+loc.ID.String(), body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
	}

	cur := decode[dto.CurrentPlanResponse](t, s.do(t, http.MethodGet, "/plan", nil))
	require.Len(t, cur.Plan.Locations, 1)
	got := cur.Plan.Locations[0]
	assert.Equal(t, "orig", got.Name)
	assert.Equal(t, domain.Coordinate{Lat: 0, Lng: 1}, got.Coordinates)
	assert.Nil(t, got.VisitDuration)
	assert.True(t, got.Day.IsUnassigned())
}

func TestAutoAssignDays(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/plans", dto.CreatePlanRequest{Name: "Auto", TotalDays: 2}).Code)

	for i, typ := range []string{"start", "waypoint", "waypoint", "end"} {
		addLocation(t, s, typ, typ, float64(i)/10, nil)
	}

	rec := s.do(t, http.MethodPost, "/plan/days/auto", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[dto.AutoAssignResponse](t, rec).Assignments
	require.Len(t, got, 4)
	assert.Equal(t, []int{1, 1, 2, 2}, []int{got[0].Day, got[1].Day, got[2].Day, got[3].Day})
}

func TestExportImport(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/plans", dto.CreatePlanRequest{Name: "Roundtrip", TotalDays: 2}).Code)
	a := addLocation(t, s, "A", "start", 0, 1)
	b := addLocation(t, s, "B", "end", 0.3, 2)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/plan/routes",
		dto.ConnectRequest{FromLocationID: a.ID, ToLocationID: b.ID, Mode: domain.Transit}).Code)

	rec := s.do(t, http.MethodGet, "/plan/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	exported := rec.Body.Bytes()

	rec = s.do(t, http.MethodPost, "/plans/import", exported)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	imported := decode[dto.CurrentPlanResponse](t, rec).Plan
	assert.Equal(t, "Roundtrip", imported.Name)
	require.Len(t, imported.Routes, 1)
	assert.Equal(t, domain.Transit, imported.Routes[0].Mode)

	// Import stores the plan, so it can be loaded again by id.
	rec = s.do(t, http.MethodPost, "/plans/"+imported.ID.String()+"/load", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/plans/"+uuid.New().String()+"/load", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/plans/import", strings.Replace(string(exported), `"version": 1`, `"version": 9`, 1))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMiddleware(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodGet, "/health", nil)
	s.do(t, http.MethodPost, "/calc/route", `{"from": {"lat": 0, "lng": 0}, "to": {"lat": 0, "lng": 1}, "transport_mode": "transit"}`)
	s.do(t, http.MethodDelete, "/plans/"+uuid.New().String(), nil)

	entry := s.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "request", entry.Message)
	assert.Equal(t, http.StatusNotFound, entry.Data["status"])
	assert.Equal(t, http.MethodDelete, entry.Data["method"])
	assert.NotEmpty(t, entry.Data["req_id"])

	rec := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/health",status="200"} 1`)
	assert.Contains(t, body, `http_requests_total{method="DELETE",path="/plans/{id}",status="404"} 1`)
	assert.Contains(t, body, `route_estimates_total{mode="transit"} 1`)
}
