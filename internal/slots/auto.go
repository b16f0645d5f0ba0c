package slots

import (
	"strconv"
	"time"
)

// AutoConfig describes a generated schedule. Every field is parsed
// defensively: invalid dates fall back to today, an invalid start time to
// 09:00, a non-positive interval to 30 minutes.
type AutoConfig struct {
	// StartDate is the earliest bookable day (ISO date or timestamp).
	StartDate string
	// SlotStartTime is the time of day of the first slot, "HH:MM".
	SlotStartTime string
	// MaxDate caps forward navigation; empty means no cap.
	MaxDate string

	SlotCount     int
	SlotInterval  int // minutes, default 30
	BreakDuration int // minutes after every slot except the last, default 0

	// ExcludedDays holds ISO dates ("2024-01-15") and weekday numbers
	// ("0".."6", Sunday=0). Unrecognized entries are ignored.
	ExcludedDays []string
	// ExcludedSlots holds exact timestamps, matched at minute precision.
	// Matching slots stay in the view flagged as excluded.
	ExcludedSlots []string

	InfoText         string
	AlertTitle       string
	AlertDescription string
}

// AutoEngine generates slots for the displayed day and navigates between
// days, skipping excluded ones. The cursor never moves to a day before
// max(today, start date) or past the max date.
type AutoEngine struct {
	startDay  time.Time
	startHour int
	startMin  int
	maxDay    time.Time
	hasMax    bool

	count    int
	interval int
	brk      int

	excludedDates    map[string]struct{}
	excludedWeekdays map[time.Weekday]struct{}
	excludedSlots    map[string]struct{}

	current   time.Time
	selection *string

	infoText         string
	alertTitle       string
	alertDescription string

	notify NotifyFunc
	now    func() time.Time
}

// NewAutoEngine builds an engine from the given config. notify may be nil.
func NewAutoEngine(cfg AutoConfig, notify NotifyFunc) *AutoEngine {
	return newAutoEngine(cfg, notify, time.Now)
}

func newAutoEngine(cfg AutoConfig, notify NotifyFunc, now func() time.Time) *AutoEngine {
	e := &AutoEngine{
		count:            cfg.SlotCount,
		interval:         cfg.SlotInterval,
		brk:              cfg.BreakDuration,
		excludedDates:    make(map[string]struct{}),
		excludedWeekdays: make(map[time.Weekday]struct{}),
		excludedSlots:    make(map[string]struct{}),
		infoText:         cfg.InfoText,
		alertTitle:       cfg.AlertTitle,
		alertDescription: cfg.AlertDescription,
		notify:           notify,
		now:              now,
	}
	if e.count < 0 {
		e.count = 0
	}
	if e.interval <= 0 {
		e.interval = 30
	}
	if e.brk < 0 {
		e.brk = 0
	}
	if e.alertTitle == "" {
		e.alertTitle = defaultAlertTitle
	}
	if e.alertDescription == "" {
		e.alertDescription = defaultAlertDescription
	}

	today := DayOf(e.now())
	if t, ok := ParseSelection(cfg.StartDate); ok {
		e.startDay = DayOf(t)
	} else {
		e.startDay = today
	}

	e.startHour, e.startMin = 9, 0
	if h, m, ok := parseTimeOfDay(cfg.SlotStartTime); ok {
		e.startHour, e.startMin = h, m
	}

	if t, ok := ParseSelection(cfg.MaxDate); ok {
		e.maxDay = DayOf(t)
		e.hasMax = true
	}

	for _, raw := range cfg.ExcludedDays {
		if n, err := strconv.Atoi(raw); err == nil {
			if n >= 0 && n <= 6 {
				e.excludedWeekdays[time.Weekday(n)] = struct{}{}
			}
			continue
		}
		if t, ok := ParseSelection(raw); ok {
			e.excludedDates[DayOf(t).Format(dateLayout)] = struct{}{}
		}
	}
	for _, raw := range cfg.ExcludedSlots {
		if t, ok := ParseSelection(raw); ok {
			e.excludedSlots[slotKey(t)] = struct{}{}
		}
	}

	first := e.startDay
	if first.Before(today) {
		first = today
	}
	e.current = e.firstValidDayFrom(first)
	return e
}

func parseTimeOfDay(raw string) (hour, minute int, ok bool) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Hour(), t.Minute(), true
		}
	}
	return 0, 0, false
}

// firstValidDayFrom scans forward for a day not matched by an exclusion rule,
// bounded like navigation. Falls back to the given day if nothing is found.
func (e *AutoEngine) firstValidDayFrom(day time.Time) time.Time {
	candidate := day
	for i := 0; i < maxNavigationDays; i++ {
		if e.outOfRange(candidate) {
			break
		}
		if !e.isDayExcluded(candidate) {
			return candidate
		}
		candidate = candidate.AddDate(0, 0, 1)
	}
	return day
}

func (e *AutoEngine) isDayExcluded(day time.Time) bool {
	if _, ok := e.excludedWeekdays[day.Weekday()]; ok {
		return true
	}
	_, ok := e.excludedDates[day.Format(dateLayout)]
	return ok
}

func (e *AutoEngine) outOfRange(day time.Time) bool {
	if day.Before(DayOf(e.now())) || day.Before(e.startDay) {
		return true
	}
	return e.hasMax && day.After(e.maxDay)
}

// CurrentDay returns the cursor position.
func (e *AutoEngine) CurrentDay() time.Time { return e.current }

// Slots generates the slots for the displayed day. Slots past end of day are
// cut off; slots already in the past are suppressed; excluded slots are kept
// but flagged.
func (e *AutoEngine) Slots() []Slot {
	now := e.now()
	dayStart := e.current
	nextDay := dayStart.AddDate(0, 0, 1)
	stride := time.Duration(e.interval+e.brk) * time.Minute

	t := time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(),
		e.startHour, e.startMin, 0, 0, time.UTC)

	out := make([]Slot, 0, e.count)
	for i := 0; i < e.count; i++ {
		start := t.Add(time.Duration(i) * stride)
		if !start.Before(nextDay) {
			break
		}
		if start.Before(now) {
			continue
		}
		out = append(out, Slot{Start: start, Excluded: e.IsSlotExcluded(start)})
	}
	return out
}

// IsSlotExcluded matches a slot against the exclusion list by day, hour and
// minute.
func (e *AutoEngine) IsSlotExcluded(t time.Time) bool {
	_, ok := e.excludedSlots[slotKey(t)]
	return ok
}

// FormatSlotTime implements Engine.
func (e *AutoEngine) FormatSlotTime(t time.Time) string { return FormatSlotTime(t) }

// CanNavigateBack reports whether the previous calendar day is still on or
// after both the start date and today.
func (e *AutoEngine) CanNavigateBack() bool {
	prev := e.current.AddDate(0, 0, -1)
	return !prev.Before(e.startDay) && !prev.Before(DayOf(e.now()))
}

// CanNavigateForward reports whether the next calendar day is on or after
// today and within the max date, when one is set.
func (e *AutoEngine) CanNavigateForward() bool {
	next := e.current.AddDate(0, 0, 1)
	if next.Before(DayOf(e.now())) {
		return false
	}
	return !e.hasMax || !next.After(e.maxDay)
}

// NavigateBack moves the cursor to the closest earlier valid day. Reports
// false when no valid day exists within bounds; the cursor then stays put.
func (e *AutoEngine) NavigateBack() bool { return e.navigate(-1) }

// NavigateForward moves the cursor to the closest later valid day.
func (e *AutoEngine) NavigateForward() bool { return e.navigate(1) }

func (e *AutoEngine) navigate(step int) bool {
	day := e.current
	for i := 0; i < maxNavigationDays; i++ {
		day = day.AddDate(0, 0, step)
		if e.outOfRange(day) {
			return false
		}
		if e.isDayExcluded(day) {
			continue
		}
		e.current = day
		e.clearSelection()
		return true
	}
	return false
}

// clearSelection drops the day-scoped selection and tells the owner.
func (e *AutoEngine) clearSelection() {
	e.selection = nil
	if e.notify != nil {
		e.notify(nil)
	}
}

// SetStartDate applies an external start date change. When the new start date
// is later than the cursor, the cursor snaps forward to the first valid day
// from it and the selection is cleared. The cursor never moves backward.
func (e *AutoEngine) SetStartDate(raw string) {
	t, ok := ParseSelection(raw)
	if !ok {
		return
	}
	start := DayOf(t)
	e.startDay = start
	if start.After(e.current) {
		e.current = e.firstValidDayFrom(start)
		e.clearSelection()
	}
}

// Select records a user-picked slot and forwards the raw value unchanged.
func (e *AutoEngine) Select(value string) {
	v := value
	e.selection = &v
	if e.notify != nil {
		e.notify(&v)
	}
}

// SetSelection applies the externally owned selection. A valid selection on
// a different day moves the cursor there without clearing it.
func (e *AutoEngine) SetSelection(value *string) {
	e.selection = value
	if value == nil {
		return
	}
	if t, ok := ParseSelection(*value); ok && !SameDay(t, e.current) {
		e.current = DayOf(t)
	}
}

// Selection returns the raw selection value, regardless of day.
func (e *AutoEngine) Selection() *string { return e.selection }

// activeSelection returns the selection only while it falls on the displayed
// day; selections for other days read as absent until navigated back to.
func (e *AutoEngine) activeSelection() *string {
	if e.selection == nil {
		return nil
	}
	t, ok := ParseSelection(*e.selection)
	if !ok || !SameDay(t, e.current) {
		return nil
	}
	return e.selection
}

// GenerateDaySlots returns the full slot grid of a config for one day, with
// no past-suppression and no exclusion flags. Used to match external busy
// periods against the grid.
func GenerateDaySlots(cfg AutoConfig, day time.Time) []time.Time {
	interval := cfg.SlotInterval
	if interval <= 0 {
		interval = 30
	}
	brk := cfg.BreakDuration
	if brk < 0 {
		brk = 0
	}
	hour, minute := 9, 0
	if h, m, ok := parseTimeOfDay(cfg.SlotStartTime); ok {
		hour, minute = h, m
	}

	d := DayOf(day)
	nextDay := d.AddDate(0, 0, 1)
	stride := time.Duration(interval+brk) * time.Minute
	first := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)

	out := make([]time.Time, 0, cfg.SlotCount)
	for i := 0; i < cfg.SlotCount; i++ {
		start := first.Add(time.Duration(i) * stride)
		if !start.Before(nextDay) {
			break
		}
		out = append(out, start)
	}
	return out
}

// View implements Engine.
func (e *AutoEngine) View() View {
	generated := e.Slots()
	has := false
	for _, s := range generated {
		if !s.Excluded {
			has = true
			break
		}
	}
	return View{
		Day:                e.current,
		DayLabel:           FormatDayLabel(e.current),
		Slots:              generated,
		HasAvailableSlots:  has,
		CanNavigateBack:    e.CanNavigateBack(),
		CanNavigateForward: e.CanNavigateForward(),
		Selection:          e.activeSelection(),
		GroupName:          GroupKey(e.current),
		InfoText:           e.infoText,
		AlertTitle:         e.alertTitle,
		AlertDescription:   e.alertDescription,
	}
}
