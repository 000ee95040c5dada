package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayRefJSON(t *testing.T) {
	tests := []struct {
		ref  DayRef
		wire string
	}{
		{Unassigned(), "null"},
		{CrossDay(), "0"},
		{Day(1), "1"},
		{Day(30), "30"},
	}
	for _, tt := range tests {
		t.Run(tt.ref.String(), func(t *testing.T) {
			b, err := json.Marshal(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.wire, string(b))

			var got DayRef
			require.NoError(t, json.Unmarshal(b, &got))
			assert.Equal(t, tt.ref, got)
		})
	}
}

func TestDayRefJSON_InStruct(t *testing.T) {
	var loc struct {
		Day DayRef `json:"day_number"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &loc))
	assert.True(t, loc.Day.IsUnassigned())

	require.NoError(t, json.Unmarshal([]byte(`{"day_number": 4}`), &loc))
	n, ok := loc.Day.Number()
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	err := json.Unmarshal([]byte(`{"day_number": -2}`), &loc)
	assert.ErrorIs(t, err, ErrDayOutOfRange)

	err = json.Unmarshal([]byte(`{"day_number": "two"}`), &loc)
	assert.Error(t, err)
}

func TestDayRefAccessors(t *testing.T) {
	assert.Equal(t, 7, Unassigned().NumberOr(7))
	assert.Equal(t, 7, CrossDay().NumberOr(7))
	assert.Equal(t, 3, Day(3).NumberOr(7))

	assert.Equal(t, 0, CrossDay().Key())
	assert.Equal(t, 0, Unassigned().Key())
	assert.Equal(t, 5, Day(5).Key())

	assert.True(t, DayRef{}.IsUnassigned())
	assert.False(t, Day(1).IsCrossDay())
	assert.NotEqual(t, CrossDay(), Unassigned())
}

func TestDayFromInt(t *testing.T) {
	d, err := DayFromInt(0)
	require.NoError(t, err)
	assert.True(t, d.IsCrossDay())

	d, err = DayFromInt(2)
	require.NoError(t, err)
	assert.Equal(t, Day(2), d)

	_, err = DayFromInt(-1)
	assert.ErrorIs(t, err, ErrDayOutOfRange)
}
