package services

import (
	"fmt"
	"math"
	"trip-planner-service/internal/domain"
)

// modeProfile holds the constants the estimator applies for one transport mode.
type modeProfile struct {
	// Real paths are longer than the great circle; straight-line km are
	// multiplied by this factor.
	inflation float64
	speedKmh  float64
	// Fixed minutes added to every leg (parking, waiting for a vehicle).
	overheadMin float64
	// Straight-line ceiling above which the mode is considered unreasonable.
	maxReasonableKm float64
}

var modeProfiles = [...]modeProfile{
	domain.Walking: {inflation: 1.3, speedKmh: 5, overheadMin: 0, maxReasonableKm: 50},
	domain.Driving: {inflation: 1.4, speedKmh: 40, overheadMin: 5, maxReasonableKm: 1000},
	domain.Transit: {inflation: 1.5, speedKmh: 25, overheadMin: 10, maxReasonableKm: 200},
}

func profileFor(mode domain.TransportMode) (modeProfile, error) {
	if !mode.Valid() || int(mode) >= len(modeProfiles) {
		return modeProfile{}, fmt.Errorf("%w: %v", domain.ErrInvalidTransportMode, mode)
	}
	return modeProfiles[mode], nil
}

// EstimateDistance converts a straight-line distance into the expected
// travelled distance for mode.
func EstimateDistance(straightLineKm float64, mode domain.TransportMode) (float64, error) {
	p, err := profileFor(mode)
	if err != nil {
		return 0, fmt.Errorf("estimate distance: %w", err)
	}
	return straightLineKm * p.inflation, nil
}

// EstimateDuration returns whole minutes to cover adjustedKm with mode,
// including the mode's fixed overhead.
func EstimateDuration(adjustedKm float64, mode domain.TransportMode) (int, error) {
	p, err := profileFor(mode)
	if err != nil {
		return 0, fmt.Errorf("estimate duration: %w", err)
	}
	return int(math.Round(adjustedKm/p.speedKmh*60 + p.overheadMin)), nil
}

// MaxReasonableDistance is the straight-line ceiling used by reachability checks.
func MaxReasonableDistance(mode domain.TransportMode) (float64, error) {
	p, err := profileFor(mode)
	if err != nil {
		return 0, fmt.Errorf("max reasonable distance: %w", err)
	}
	return p.maxReasonableKm, nil
}
