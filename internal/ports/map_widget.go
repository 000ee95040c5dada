package ports

import (
	"context"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/geo"
)

type MapEvent string

const (
	MapEventClick MapEvent = "click"
	MapEventZoom  MapEvent = "zoom"
	MapEventMove  MapEvent = "move"
)

type Marker struct {
	ID       string
	Position domain.Coordinate
	Label    string
	Kind     domain.LocationType
}

type Polyline struct {
	ID   string
	Path []domain.Coordinate
	Mode domain.TransportMode
}

// Port: the capabilities a map provider offers to the rendering adapter.
// The planning core never talks to a map directly.
type MapWidget interface {
	Initialize(ctx context.Context, center domain.Coordinate, zoom int) error
	Destroy() error
	SetCenter(c domain.Coordinate) error
	SetZoom(zoom int) error
	AddMarker(m Marker) error
	RemoveMarker(id string) error
	UpdateMarker(m Marker) error
	DrawRoute(p Polyline) error
	RemoveRoute(id string) error
	FitBounds(b geo.Bounds) error
	On(event MapEvent, handler func(at domain.Coordinate))
}
