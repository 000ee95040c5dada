package repositories

import (
	"time"
	"trip-planner-service/internal/domain"

	"github.com/google/uuid"
)

var baseTime = time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC)

func samplePlan(name string, updated time.Time) domain.TravelPlan {
	visit := 45
	hotel := domain.Location{
		ID: uuid.New(), Name: "Hotel", Type: domain.Start,
		Coordinates: domain.Coordinate{Lat: 35.68, Lng: 139.76}, Day: domain.Day(1),
		CreatedAt: baseTime, UpdatedAt: baseTime,
	}
	temple := domain.Location{
		ID: uuid.New(), Name: "Temple", Type: domain.Waypoint,
		Coordinates: domain.Coordinate{Lat: 35.71, Lng: 139.79}, Day: domain.Day(2),
		VisitDuration: &visit, CreatedAt: baseTime, UpdatedAt: baseTime,
	}
	market := domain.Location{
		ID: uuid.New(), Name: "Market", Type: domain.Waypoint,
		Coordinates: domain.Coordinate{Lat: 35.66, Lng: 139.77}, Day: domain.Unassigned(),
		CreatedAt: baseTime, UpdatedAt: baseTime,
	}
	route := domain.Route{
		ID: uuid.New(),
		Leg: domain.Leg{
			FromLocationID: hotel.ID, ToLocationID: temple.ID, Day: domain.CrossDay(),
			RouteEstimate: domain.RouteEstimate{
				Distance: 5.12, Duration: 17, Mode: domain.Transit,
				Path: []domain.Coordinate{hotel.Coordinates, {Lat: 35.695, Lng: 139.781}, temple.Coordinates},
			},
		},
		CreatedAt: baseTime, UpdatedAt: updated,
	}
	return domain.TravelPlan{
		ID: uuid.New(), Name: name, TotalDays: 3,
		Locations: []domain.Location{hotel, temple, market},
		Routes:    []domain.Route{route},
		CreatedAt: baseTime, UpdatedAt: updated,
	}
}
