package app

import "time"

const (
	ModeAuto   = "auto"
	ModeManual = "manual"
)

// Schedule is a stored slot-picker configuration. Auto mode generates slots
// from the interval parameters; manual mode serves the rows in
// schedule_slots. Date and time fields are kept as strings: the engines parse
// them defensively and fall back to defaults on malformed values.
type Schedule struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Mode   string `json:"mode"`
	Title  string `json:"title,omitempty"`

	StartDate        string `json:"start_date,omitempty"`
	SlotStartTime    string `json:"slot_start_time,omitempty"`
	MaxDate          string `json:"max_date,omitempty"`
	SlotCount        int    `json:"slot_count,omitempty"`
	SlotIntervalMins int    `json:"slot_interval_minutes,omitempty"`
	BreakMins        int    `json:"break_minutes,omitempty"`

	// ExcludedDays mixes ISO dates and weekday numbers "0".."6".
	ExcludedDays []string `json:"excluded_days,omitempty"`
	// ExcludedSlots holds exact timestamps; confirmed bookings are merged in
	// when an engine is built.
	ExcludedSlots []string `json:"excluded_slots,omitempty"`

	InfoText  string    `json:"info_text,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type Booking struct {
	ID            string    `json:"id"`
	ScheduleID    string    `json:"schedule_id"`
	UserID        string    `json:"user_id"`
	AttendeeEmail string    `json:"attendee_email"`
	StartAtUTC    time.Time `json:"start_at_utc"`
	EndAtUTC      time.Time `json:"end_at_utc"`
	Status        string    `json:"status"`
	Source        string    `json:"source,omitempty"`
	Type          string    `json:"type,omitempty"`
	Description   string    `json:"description,omitempty"`
	Title         string    `json:"title,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}
