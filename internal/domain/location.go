package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocationType classifies a location within a plan.
// A plan holds at most one Start and at most one End; waypoints are unbounded.
type LocationType uint8

const (
	Start LocationType = iota + 1
	Waypoint
	End
)

func (t LocationType) String() string {
	switch t {
	case Start:
		return "start"
	case Waypoint:
		return "waypoint"
	case End:
		return "end"
	}
	return fmt.Sprintf("LocationType(%d)", uint8(t))
}

func (t LocationType) Valid() bool { return t >= Start && t <= End }

// IsAnchor reports whether only one location of this type may exist.
func (t LocationType) IsAnchor() bool { return t == Start || t == End }

// Rank orders types start, waypoint, end.
func (t LocationType) Rank() int { return int(t) - 1 }

func ParseLocationType(s string) (LocationType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start":
		return Start, nil
	case "waypoint":
		return Waypoint, nil
	case "end":
		return End, nil
	}
	return 0, fmt.Errorf("%w: unknown location type %q", ErrValidation, s)
}

func (t LocationType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown location type %d", ErrValidation, uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *LocationType) UnmarshalText(b []byte) error {
	parsed, err := ParseLocationType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Location is a point the traveller wants to visit.
// ID is assigned at creation and never reused. Day is Unassigned or Day(n)
// with 1 <= n <= plan total days; it is never CrossDay.
type Location struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Type          LocationType `json:"type"`
	Coordinates   Coordinate   `json:"coordinates"`
	Day           DayRef       `json:"day_number"`
	VisitDuration *int         `json:"visit_duration,omitempty"` // minutes, statistics only
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NewLocation carries the user-supplied fields of a location being added.
type NewLocation struct {
	Name          string
	Type          LocationType
	Coordinates   Coordinate
	Day           DayRef
	VisitDuration *int
}

// LocationPatch lists the fields to change; nil fields are left untouched.
type LocationPatch struct {
	Name          *string
	Type          *LocationType
	Coordinates   *Coordinate
	Day           *DayRef
	VisitDuration *int
}

// ValidateVisitDuration rejects negative visit durations.
func ValidateVisitDuration(minutes *int) error {
	if minutes != nil && *minutes < 0 {
		return fmt.Errorf("%w: visit duration must not be negative", ErrValidation)
	}
	return nil
}
