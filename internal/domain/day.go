package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type dayKind uint8

const (
	dayUnassigned dayKind = iota
	dayAssigned
	dayCrossDay
)

// DayRef is the day a location or route belongs to.
//
// A location is either Unassigned or on Day(n). A route is either on Day(n),
// when both endpoints share that day, or CrossDay. The zero value is
// Unassigned. On the wire Unassigned is null, CrossDay is 0 and Day(n) is n.
type DayRef struct {
	kind dayKind
	n    int
}

func Unassigned() DayRef { return DayRef{} }

func CrossDay() DayRef { return DayRef{kind: dayCrossDay} }

// Day returns the reference to day n. Values below 1 are not days; callers
// validate the range against the plan before assigning.
func Day(n int) DayRef { return DayRef{kind: dayAssigned, n: n} }

func (d DayRef) IsUnassigned() bool { return d.kind == dayUnassigned }

func (d DayRef) IsCrossDay() bool { return d.kind == dayCrossDay }

// Number reports the day number and whether d refers to a single day.
func (d DayRef) Number() (int, bool) {
	if d.kind != dayAssigned {
		return 0, false
	}
	return d.n, true
}

// NumberOr returns the day number, or fallback when d is not a single day.
func (d DayRef) NumberOr(fallback int) int {
	if n, ok := d.Number(); ok {
		return n
	}
	return fallback
}

// Key is the integer bucket used by statistics: 0 for cross-day and
// unassigned, n for Day(n).
func (d DayRef) Key() int { return d.NumberOr(0) }

func (d DayRef) String() string {
	switch d.kind {
	case dayAssigned:
		return "day " + strconv.Itoa(d.n)
	case dayCrossDay:
		return "cross-day"
	}
	return "unassigned"
}

func (d DayRef) MarshalJSON() ([]byte, error) {
	switch d.kind {
	case dayAssigned:
		return []byte(strconv.Itoa(d.n)), nil
	case dayCrossDay:
		return []byte("0"), nil
	}
	return []byte("null"), nil
}

func (d *DayRef) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*d = Unassigned()
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("day number: %w", err)
	}
	ref, err := DayFromInt(n)
	if err != nil {
		return err
	}
	*d = ref
	return nil
}

// DayFromInt decodes the integer encoding used by storage: 0 is CrossDay,
// n >= 1 is Day(n).
func DayFromInt(n int) (DayRef, error) {
	switch {
	case n == 0:
		return CrossDay(), nil
	case n > 0:
		return Day(n), nil
	}
	return DayRef{}, fmt.Errorf("%w: day number %d is negative", ErrDayOutOfRange, n)
}
