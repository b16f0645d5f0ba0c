package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualEngine_GroupsSlotsByDay(t *testing.T) {
	e := NewManualEngine(ManualConfig{
		Slots: []string{"2024-01-01T10:00", "2024-01-02T11:00"},
	}, nil)

	days := e.AvailableDays()
	require.Len(t, days, 2)
	assert.Equal(t, 0, e.CurrentDayIndex())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), days[0])
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), days[1])
}

func TestManualEngine_SortsAndDiscardsUnparseable(t *testing.T) {
	e := NewManualEngine(ManualConfig{
		Slots: []string{
			"2024-01-02T11:00:00Z",
			"junk",
			"2024-01-01T14:00:00Z",
			"2024-01-01T10:00:00Z",
			"",
		},
	}, nil)

	view := e.View()
	require.Len(t, view.Slots, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), view.Slots[0].Start)
	assert.Equal(t, time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC), view.Slots[1].Start)
	assert.Len(t, e.AvailableDays(), 2)
}

func TestManualEngine_NavigationBounds(t *testing.T) {
	e := NewManualEngine(ManualConfig{
		Slots: []string{"2024-01-01T10:00:00Z", "2024-01-02T11:00:00Z"},
	}, nil)

	assert.False(t, e.CanNavigateBack())
	assert.False(t, e.NavigateBack())
	assert.Equal(t, 0, e.CurrentDayIndex())

	require.True(t, e.NavigateForward())
	assert.Equal(t, 1, e.CurrentDayIndex())
	assert.False(t, e.CanNavigateForward())
	assert.False(t, e.NavigateForward())
	assert.Equal(t, 1, e.CurrentDayIndex())
}

func TestManualEngine_NavigationClearsSelection(t *testing.T) {
	var notified []*string
	e := NewManualEngine(ManualConfig{
		Slots: []string{"2024-01-01T10:00:00Z", "2024-01-02T11:00:00Z"},
	}, func(v *string) {
		notified = append(notified, v)
	})

	e.Select("2024-01-01T10:00:00Z")
	require.True(t, e.NavigateForward())

	require.Len(t, notified, 2)
	assert.NotNil(t, notified[0])
	assert.Nil(t, notified[1])
	assert.Nil(t, e.Selection())
}

func TestManualEngine_SetSlots_KeepsSurvivingDay(t *testing.T) {
	e := NewManualEngine(ManualConfig{
		Slots: []string{"2024-01-01T10:00:00Z", "2024-01-03T11:00:00Z"},
	}, nil)
	require.True(t, e.NavigateForward())
	require.Equal(t, 1, e.CurrentDayIndex())

	// A day is prepended; the displayed day moves to index 2.
	e.SetSlots([]string{
		"2023-12-30T09:00:00Z",
		"2024-01-01T10:00:00Z",
		"2024-01-03T11:00:00Z",
	})
	assert.Equal(t, 2, e.CurrentDayIndex())
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), e.View().Day)
}

func TestManualEngine_SetSlots_ResetsWhenDayGone(t *testing.T) {
	e := NewManualEngine(ManualConfig{
		Slots: []string{"2024-01-01T10:00:00Z", "2024-01-03T11:00:00Z"},
	}, nil)
	require.True(t, e.NavigateForward())

	e.SetSlots([]string{"2024-01-01T10:00:00Z", "2024-01-05T11:00:00Z"})
	assert.Equal(t, 0, e.CurrentDayIndex())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), e.View().Day)
}

func TestManualEngine_SetSelection_JumpsToListedDay(t *testing.T) {
	e := NewManualEngine(ManualConfig{
		Slots: []string{"2024-01-01T10:00:00Z", "2024-01-03T11:00:00Z"},
	}, nil)

	v := "2024-01-03T11:00:00Z"
	e.SetSelection(&v)
	assert.Equal(t, 1, e.CurrentDayIndex())
	require.NotNil(t, e.View().Selection)
	assert.Equal(t, v, *e.View().Selection)

	// A selection on an unlisted day leaves the cursor alone and reads as
	// absent.
	other := "2024-02-01T09:00:00Z"
	e.SetSelection(&other)
	assert.Equal(t, 1, e.CurrentDayIndex())
	assert.Nil(t, e.View().Selection)
}

func TestManualEngine_EmptyList(t *testing.T) {
	e := NewManualEngine(ManualConfig{}, nil)

	view := e.View()
	assert.Empty(t, view.Slots)
	assert.False(t, view.HasAvailableSlots)
	assert.False(t, view.CanNavigateBack)
	assert.False(t, view.CanNavigateForward)
	assert.Equal(t, defaultAlertTitle, view.AlertTitle)
	assert.Equal(t, defaultAlertDescription, view.AlertDescription)
}

func TestManualEngine_NoExclusions(t *testing.T) {
	e := NewManualEngine(ManualConfig{
		Slots: []string{"2024-01-01T10:00:00Z"},
	}, nil)
	assert.False(t, e.IsSlotExcluded(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)))
}
