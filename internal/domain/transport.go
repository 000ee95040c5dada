package domain

import (
	"fmt"
	"strings"
)

// TransportMode is the closed set of travel modes the estimator understands.
type TransportMode uint8

const (
	Walking TransportMode = iota + 1
	Driving
	Transit
)

// AllTransportModes lists every mode in the fixed order used for alternatives.
var AllTransportModes = []TransportMode{Walking, Driving, Transit}

func (m TransportMode) String() string {
	switch m {
	case Walking:
		return "walking"
	case Driving:
		return "driving"
	case Transit:
		return "transit"
	}
	return fmt.Sprintf("TransportMode(%d)", uint8(m))
}

func (m TransportMode) Valid() bool {
	return m >= Walking && m <= Transit
}

// ParseTransportMode accepts the lowercase names produced by String.
func ParseTransportMode(s string) (TransportMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "walking":
		return Walking, nil
	case "driving":
		return Driving, nil
	case "transit":
		return Transit, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTransportMode, s)
}

func (m TransportMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTransportMode, uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *TransportMode) UnmarshalText(b []byte) error {
	parsed, err := ParseTransportMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
