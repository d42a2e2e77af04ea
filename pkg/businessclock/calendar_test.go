package businessclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKey(t *testing.T) {
	tests := []struct {
		name     string
		instant  time.Time
		expected string
	}{
		{
			name:     "utc afternoon stays same civil day",
			instant:  time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			expected: "2024-06-15",
		},
		{
			name:     "late utc evening rolls into next civil day",
			instant:  time.Date(2024, 6, 15, 22, 30, 0, 0, time.UTC),
			expected: "2024-06-16",
		},
		{
			name:     "utc midnight is 03:00 civil",
			instant:  time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			expected: "2024-06-15",
		},
		{
			name:     "zero time yields sentinel",
			instant:  time.Time{},
			expected: InvalidKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DayKey(tt.instant))
			// Pure function: recomputation is stable.
			assert.Equal(t, DayKey(tt.instant), DayKey(tt.instant))
		})
	}
}

func TestHourOfDay(t *testing.T) {
	// 21:30 UTC is 00:30 in the business timezone.
	assert.Equal(t, 0, HourOfDay(time.Date(2024, 6, 15, 21, 30, 0, 0, time.UTC)))
	assert.Equal(t, 12, HourOfDay(time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)))
}

func TestWindowForDates(t *testing.T) {
	win, err := WindowForDates("2024-06-01", "2024-06-15")
	require.NoError(t, err)

	// Civil midnight UTC+3 is 21:00 UTC of the previous day.
	assert.True(t, win.Start.Equal(time.Date(2024, 5, 31, 21, 0, 0, 0, time.UTC)))
	// End is exclusive: first instant of June 16th civil time.
	assert.True(t, win.End.Equal(time.Date(2024, 6, 15, 21, 0, 0, 0, time.UTC)))

	assert.True(t, win.Contains(time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)))
	assert.False(t, win.Contains(win.End))
	assert.True(t, win.Contains(win.Start))
}

func TestWindowForDatesRejectsBadInput(t *testing.T) {
	_, err := WindowForDates("15.06.2024", "2024-06-16")
	assert.Error(t, err)

	_, err = WindowForDates("2024-06-16", "2024-06-01")
	assert.Error(t, err)
}

func TestDayWindow(t *testing.T) {
	// 23:00 UTC on the 15th is already the 16th in civil time.
	ref := time.Date(2024, 6, 15, 23, 0, 0, 0, time.UTC)
	win := DayWindow(ref)

	assert.Equal(t, "2024-06-16", DayKey(win.Start))
	assert.True(t, win.Contains(ref))
	assert.True(t, win.End.Sub(win.Start) == 24*time.Hour)
}

func TestMonthWindow(t *testing.T) {
	ref := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	win := MonthWindow(ref)

	assert.Equal(t, "2024-06-01", DayKey(win.Start))
	assert.Equal(t, "2024-07-01", DayKey(win.End))
	assert.True(t, StartOfMonth(ref).Equal(win.Start))
}

func TestParseFlexible(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string // expected civil day key, or InvalidKey
	}{
		{name: "rfc3339 with offset", raw: "2024-06-15T20:30:00Z", expected: "2024-06-15"},
		{name: "offsetless datetime read at face value", raw: "2024-06-15 23:30:00", expected: "2024-06-15"},
		{name: "date only", raw: "2024-06-15", expected: "2024-06-15"},
		{name: "turkish dotted date", raw: "15.06.2024", expected: "2024-06-15"},
		{name: "slashed date", raw: "15/06/2024", expected: "2024-06-15"},
		{name: "padded input", raw: "  2024-06-15  ", expected: "2024-06-15"},
		{name: "empty", raw: "", expected: InvalidKey},
		{name: "garbage", raw: "yakında", expected: InvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FlexibleDayKey(tt.raw))
		})
	}
}

func TestParseFlexibleFaceValuePolicy(t *testing.T) {
	// An offsetless timestamp late in the evening must keep its human-entered
	// date instead of being shifted by a UTC conversion.
	parsed, ok := ParseFlexible("2024-06-15 23:45:00")
	require.True(t, ok)
	assert.Equal(t, "2024-06-15", DayKey(parsed))
	// As a UTC instant the same wall time would belong to June 16th civil.
	assert.Equal(t, "2024-06-16", DayKey(time.Date(2024, 6, 15, 23, 45, 0, 0, time.UTC)))
}
