package slots

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// slotKeyLayout identifies a slot by day, hour and minute. Exclusion matching
// and selection comparison both work at minute precision.
const slotKeyLayout = "2006-01-02T15:04"

var selectionLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	dateLayout,
}

// ParseSelection parses an externally supplied timestamp. Malformed input
// reports false instead of an error; callers treat it as "no selection".
func ParseSelection(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range selectionLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// DayOf strips the time of day, leaving midnight UTC.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two instants fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// FormatSlotTime renders a slot start as zero-padded 24-hour "HH:MM".
func FormatSlotTime(t time.Time) string {
	return t.UTC().Format("15:04")
}

// FormatDayLabel renders a day as "Weekday D Month".
func FormatDayLabel(t time.Time) string {
	return t.UTC().Format("Monday 2 January")
}

// GroupKey returns a stable radio-group name for the displayed day.
func GroupKey(day time.Time) string {
	return fmt.Sprintf("appointment-slots-%s", day.UTC().Format(dateLayout))
}

func slotKey(t time.Time) string {
	return t.UTC().Format(slotKeyLayout)
}
