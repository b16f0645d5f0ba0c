package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2024-03-11T09:30:00Z", time.Date(2024, 3, 11, 9, 30, 0, 0, time.UTC), true},
		{"2024-03-11T09:30:00+02:00", time.Date(2024, 3, 11, 7, 30, 0, 0, time.UTC), true},
		{"2024-03-11T09:30:00", time.Date(2024, 3, 11, 9, 30, 0, 0, time.UTC), true},
		{"2024-03-11T09:30", time.Date(2024, 3, 11, 9, 30, 0, 0, time.UTC), true},
		{"2024-03-11", time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"not-a-date", time.Time{}, false},
		{"2024-13-40", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseSelection(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		if tc.ok {
			assert.True(t, got.Equal(tc.want), "raw=%q got=%v", tc.raw, got)
		}
	}
}

func TestDayOf(t *testing.T) {
	d := DayOf(time.Date(2024, 3, 11, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), d)
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 3, 11, 0, 1, 0, 0, time.UTC)
	b := time.Date(2024, 3, 11, 23, 0, 0, 0, time.UTC)
	c := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, c))
}

func TestFormatSlotTime(t *testing.T) {
	assert.Equal(t, "09:05", FormatSlotTime(time.Date(2024, 3, 11, 9, 5, 0, 0, time.UTC)))
	assert.Equal(t, "00:00", FormatSlotTime(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)))
}

func TestFormatDayLabel(t *testing.T) {
	// 11 March 2024 is a Monday.
	label := FormatDayLabel(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))
	require.Equal(t, "Monday 11 March", label)
}

func TestGroupKey(t *testing.T) {
	day := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "appointment-slots-2024-03-11", GroupKey(day))
}
