package services

import (
	"testing"
	"trip-planner-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateDistance(t *testing.T) {
	tests := []struct {
		mode domain.TransportMode
		want float64
	}{
		{domain.Walking, 13},
		{domain.Driving, 14},
		{domain.Transit, 15},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			got, err := EstimateDistance(10, tt.mode)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEstimateDuration(t *testing.T) {
	tests := []struct {
		mode domain.TransportMode
		km   float64
		want int
	}{
		{domain.Walking, 5, 60},
		{domain.Walking, 0, 0},
		{domain.Driving, 40, 65},
		{domain.Driving, 0, 5},
		{domain.Transit, 25, 70},
		{domain.Transit, 0, 10},
		// 1.45 km walking is 17.4 minutes.
		{domain.Walking, 1.45, 17},
	}
	for _, tt := range tests {
		got, err := EstimateDuration(tt.km, tt.mode)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %.2f km", tt.mode, tt.km)
	}
}

func TestEstimateDuration_Monotonic(t *testing.T) {
	for _, mode := range domain.AllTransportModes {
		prev := -1
		for km := 0.0; km <= 2000; km += 0.37 {
			got, err := EstimateDuration(km, mode)
			require.NoError(t, err)
			require.GreaterOrEqual(t, got, prev, "%s at %.2f km", mode, km)
			prev = got
		}
	}
}

func TestMaxReasonableDistance(t *testing.T) {
	want := map[domain.TransportMode]float64{
		domain.Walking: 50,
		domain.Driving: 1000,
		domain.Transit: 200,
	}
	for mode, km := range want {
		got, err := MaxReasonableDistance(mode)
		require.NoError(t, err)
		assert.Equal(t, km, got, mode.String())
	}
}

func TestEstimator_InvalidMode(t *testing.T) {
	for _, mode := range []domain.TransportMode{0, 4, 200} {
		_, err := EstimateDistance(1, mode)
		assert.ErrorIs(t, err, domain.ErrInvalidTransportMode)

		_, err = EstimateDuration(1, mode)
		assert.ErrorIs(t, err, domain.ErrInvalidTransportMode)

		_, err = MaxReasonableDistance(mode)
		assert.ErrorIs(t, err, domain.ErrInvalidTransportMode)
	}
}
