package mapview

import (
	"context"
	"fmt"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/geo"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
)

const defaultZoom = 12

// View draws a plan on a map widget and keeps the widget in sync across
// renders by tracking which markers and polylines it has drawn.
type View struct {
	widget  ports.MapWidget
	markers map[string]struct{}
	routes  map[string]struct{}
}

func NewView(widget ports.MapWidget) *View {
	return &View{
		widget:  widget,
		markers: make(map[string]struct{}),
		routes:  make(map[string]struct{}),
	}
}

// Open initializes the widget centered on center.
func (v *View) Open(ctx context.Context, center domain.Coordinate) error {
	if err := v.widget.Initialize(ctx, center, defaultZoom); err != nil {
		return fmt.Errorf("map open: %w", err)
	}
	return nil
}

// Close releases the widget and forgets everything drawn on it.
func (v *View) Close() error {
	clear(v.markers)
	clear(v.routes)
	if err := v.widget.Destroy(); err != nil {
		return fmt.Errorf("map close: %w", err)
	}
	return nil
}

// OnClick registers fn for map clicks, typically used to add a location.
func (v *View) OnClick(fn func(at domain.Coordinate)) {
	v.widget.On(ports.MapEventClick, fn)
}

// Render brings the widget in line with plan: new markers and polylines
// are added, known ones updated, stale ones removed, and the viewport is
// fitted around every location.
func (v *View) Render(plan domain.TravelPlan) error {
	seen := make(map[string]struct{}, len(plan.Locations))
	coords := make([]domain.Coordinate, 0, len(plan.Locations))
	byID := make(map[uuid.UUID]domain.Location, len(plan.Locations))

	for _, loc := range plan.Locations {
		m := ports.Marker{
			ID:       loc.ID.String(),
			Position: loc.Coordinates,
			Label:    loc.Name,
			Kind:     loc.Type,
		}
		var err error
		if _, ok := v.markers[m.ID]; ok {
			err = v.widget.UpdateMarker(m)
		} else {
			err = v.widget.AddMarker(m)
		}
		if err != nil {
			return fmt.Errorf("map render: marker %s: %w", m.ID, err)
		}
		seen[m.ID] = struct{}{}
		coords = append(coords, loc.Coordinates)
		byID[loc.ID] = loc
	}
	for id := range v.markers {
		if _, ok := seen[id]; !ok {
			if err := v.widget.RemoveMarker(id); err != nil {
				return fmt.Errorf("map render: remove marker %s: %w", id, err)
			}
		}
	}
	v.markers = seen

	drawn := make(map[string]struct{}, len(plan.Routes))
	for _, r := range plan.Routes {
		id := r.ID.String()
		if _, ok := v.routes[id]; ok {
			// Polylines have no update call; redraw in place.
			if err := v.widget.RemoveRoute(id); err != nil {
				return fmt.Errorf("map render: remove route %s: %w", id, err)
			}
		}
		p := ports.Polyline{ID: id, Path: routePath(r, byID), Mode: r.Mode}
		if err := v.widget.DrawRoute(p); err != nil {
			return fmt.Errorf("map render: route %s: %w", id, err)
		}
		drawn[id] = struct{}{}
	}
	for id := range v.routes {
		if _, ok := drawn[id]; !ok {
			if err := v.widget.RemoveRoute(id); err != nil {
				return fmt.Errorf("map render: remove route %s: %w", id, err)
			}
		}
	}
	v.routes = drawn

	if b, ok := geo.BoundsOf(coords); ok {
		if err := v.widget.FitBounds(b); err != nil {
			return fmt.Errorf("map render: fit bounds: %w", err)
		}
	}
	return nil
}

// Focus centers the widget on a single location.
func (v *View) Focus(loc domain.Location, zoom int) error {
	if err := v.widget.SetCenter(loc.Coordinates); err != nil {
		return fmt.Errorf("map focus: %w", err)
	}
	if err := v.widget.SetZoom(zoom); err != nil {
		return fmt.Errorf("map focus: %w", err)
	}
	return nil
}

// Routes without a stored path are drawn as a straight segment.
func routePath(r domain.Route, byID map[uuid.UUID]domain.Location) []domain.Coordinate {
	if len(r.Path) > 0 {
		return r.Path
	}
	from, okFrom := byID[r.FromLocationID]
	to, okTo := byID[r.ToLocationID]
	if !okFrom || !okTo {
		return nil
	}
	return []domain.Coordinate{from.Coordinates, to.Coordinates}
}
