package dto

import (
	"trip-planner-service/internal/domain"

	"github.com/google/uuid"
)

type RouteRequest struct {
	From domain.Coordinate    `json:"from"`
	To   domain.Coordinate    `json:"to"`
	Mode domain.TransportMode `json:"transport_mode"`
}

type AlternativesRequest struct {
	From domain.Coordinate `json:"from"`
	To   domain.Coordinate `json:"to"`
}

type AlternativesResponse struct {
	Alternatives []domain.RouteEstimate `json:"alternatives"`
}

type OptimizeRequest struct {
	Start     domain.Location      `json:"start"`
	Waypoints []domain.Location    `json:"waypoints"`
	End       *domain.Location     `json:"end"`
	Mode      domain.TransportMode `json:"transport_mode"`
}

type OptimizeResponse struct {
	Order []domain.Location `json:"order"`
}

type ComplexityRequest struct {
	Legs []domain.Leg `json:"legs"`
}

type ConnectRequest struct {
	FromLocationID uuid.UUID            `json:"from_location_id"`
	ToLocationID   uuid.UUID            `json:"to_location_id"`
	Mode           domain.TransportMode `json:"transport_mode"`
}

type UpdateRouteRequest struct {
	Mode domain.TransportMode `json:"transport_mode"`
}

type AutoConnectRequest struct {
	Mode  domain.TransportMode `json:"transport_mode"`
	ByDay bool                 `json:"by_day"`
}

type RoutesResponse struct {
	Routes []domain.Route `json:"routes"`
}
