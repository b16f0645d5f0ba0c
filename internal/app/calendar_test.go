package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"

	"slot-picker-service/internal/slots"
)

func TestExcludedSlotsForBusy(t *testing.T) {
	cfg := slots.AutoConfig{
		SlotStartTime: "09:00",
		SlotCount:     3,
		SlotInterval:  30,
	}
	from := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 12, 23, 0, 0, 0, time.UTC)

	// Busy 09:15-09:45 overlaps the 09:00 and 09:30 slots but not 10:00.
	busy := []busyPeriod{{
		Start: time.Date(2024, 3, 12, 9, 15, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 12, 9, 45, 0, 0, time.UTC),
	}}

	got := excludedSlotsForBusy(cfg, 30, from, to, busy)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-03-12T09:00:00Z", got[0])
	assert.Equal(t, "2024-03-12T09:30:00Z", got[1])
}

func TestExcludedSlotsForBusy_MultiDay(t *testing.T) {
	cfg := slots.AutoConfig{
		SlotStartTime: "09:00",
		SlotCount:     2,
		SlotInterval:  60,
	}
	from := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 13, 23, 0, 0, 0, time.UTC)

	// An all-day busy period on the 13th takes out that day's whole grid.
	busy := []busyPeriod{{
		Start: time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
	}}

	got := excludedSlotsForBusy(cfg, 60, from, to, busy)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-03-13T09:00:00Z", got[0])
	assert.Equal(t, "2024-03-13T10:00:00Z", got[1])
}

func TestParseEventPeriod(t *testing.T) {
	p, ok := parseEventPeriod(
		&calendar.EventDateTime{DateTime: "2024-03-12T09:00:00Z"},
		&calendar.EventDateTime{DateTime: "2024-03-12T10:00:00Z"},
	)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC), p.End)

	p, ok = parseEventPeriod(
		&calendar.EventDateTime{Date: "2024-03-12"},
		&calendar.EventDateTime{Date: "2024-03-13"},
	)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), p.Start)

	_, ok = parseEventPeriod(&calendar.EventDateTime{}, &calendar.EventDateTime{})
	assert.False(t, ok)

	// Zero-length periods are dropped.
	_, ok = parseEventPeriod(
		&calendar.EventDateTime{DateTime: "2024-03-12T09:00:00Z"},
		&calendar.EventDateTime{DateTime: "2024-03-12T09:00:00Z"},
	)
	assert.False(t, ok)
}
