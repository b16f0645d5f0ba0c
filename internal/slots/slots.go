// Package slots implements the appointment slot engines behind the picker
// API: an auto engine that generates bookable slots for a day from interval
// parameters and exclusion rules, and a manual engine that groups a
// caller-supplied slot list by day. Both expose the same day-cursor contract
// so consumers stay engine-agnostic.
package slots

import "time"

// maxNavigationDays bounds the day-skipping loops. Exclusion rules are
// caller-supplied and may exclude every day; after this many attempts a
// navigation gives up and leaves the cursor unchanged.
const maxNavigationDays = 365

// NotifyFunc receives selection changes. A nil value means the selection was
// cleared (navigating to another day always clears it).
type NotifyFunc func(value *string)

// Slot is a bookable appointment start. Excluded slots stay in the view so
// the consumer can render them disabled instead of dropping them.
type Slot struct {
	Start    time.Time `json:"start"`
	Excluded bool      `json:"excluded"`
}

// View is the engine state for the currently displayed day, recomputed on
// every call rather than cached.
type View struct {
	Day                time.Time `json:"day"`
	DayLabel           string    `json:"day_label"`
	Slots              []Slot    `json:"slots"`
	HasAvailableSlots  bool      `json:"has_available_slots"`
	CanNavigateBack    bool      `json:"can_navigate_back"`
	CanNavigateForward bool      `json:"can_navigate_forward"`
	Selection          *string   `json:"selection,omitempty"`
	GroupName          string    `json:"group_name"`
	InfoText           string    `json:"info_text,omitempty"`
	AlertTitle         string    `json:"alert_title"`
	AlertDescription   string    `json:"alert_description"`
}

// Engine is the contract shared by the auto and manual engines.
type Engine interface {
	View() View
	NavigateBack() bool
	NavigateForward() bool
	CanNavigateBack() bool
	CanNavigateForward() bool

	// Select records a user-chosen slot value and forwards it unchanged.
	Select(value string)
	// SetSelection applies an externally owned selection. A selection on
	// another day moves the cursor there without clearing it.
	SetSelection(value *string)
	Selection() *string

	IsSlotExcluded(t time.Time) bool
	FormatSlotTime(t time.Time) string
}

const (
	defaultAlertTitle       = "No appointments available"
	defaultAlertDescription = "There are no free slots on this day. Please choose another day."
)
