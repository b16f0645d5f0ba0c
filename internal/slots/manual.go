package slots

import (
	"sort"
	"time"
)

// ManualConfig describes a pre-enumerated slot list. The caller is expected
// to have filtered the list already; the engine only parses, sorts and
// groups it.
type ManualConfig struct {
	Slots []string

	InfoText         string
	AlertTitle       string
	AlertDescription string
}

type dayGroup struct {
	day   time.Time
	slots []time.Time
}

// ManualEngine navigates a caller-supplied slot list grouped by calendar
// day. The cursor is an index into the ordered day list.
type ManualEngine struct {
	days      []dayGroup
	idx       int
	selection *string

	infoText         string
	alertTitle       string
	alertDescription string

	notify NotifyFunc
}

// NewManualEngine builds an engine from the given config. notify may be nil.
func NewManualEngine(cfg ManualConfig, notify NotifyFunc) *ManualEngine {
	e := &ManualEngine{
		infoText:         cfg.InfoText,
		alertTitle:       cfg.AlertTitle,
		alertDescription: cfg.AlertDescription,
		notify:           notify,
	}
	if e.alertTitle == "" {
		e.alertTitle = defaultAlertTitle
	}
	if e.alertDescription == "" {
		e.alertDescription = defaultAlertDescription
	}
	e.days = groupByDay(cfg.Slots)
	return e
}

// groupByDay parses the raw values, drops unparseable entries, sorts
// ascending and groups by calendar date.
func groupByDay(values []string) []dayGroup {
	parsed := make([]time.Time, 0, len(values))
	for _, raw := range values {
		if t, ok := ParseSelection(raw); ok {
			parsed = append(parsed, t)
		}
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].Before(parsed[j]) })

	var days []dayGroup
	for _, t := range parsed {
		if n := len(days); n > 0 && SameDay(days[n-1].day, t) {
			days[n-1].slots = append(days[n-1].slots, t)
			continue
		}
		days = append(days, dayGroup{day: DayOf(t), slots: []time.Time{t}})
	}
	return days
}

// SetSlots replaces the slot list. If the displayed day survives the change
// the cursor is recomputed to its new position, otherwise it resets to the
// first day.
func (e *ManualEngine) SetSlots(values []string) {
	var prevDay time.Time
	hadDay := len(e.days) > 0
	if hadDay {
		prevDay = e.days[e.idx].day
	}

	e.days = groupByDay(values)
	e.idx = 0
	if !hadDay {
		return
	}
	for i, g := range e.days {
		if SameDay(g.day, prevDay) {
			e.idx = i
			return
		}
	}
}

// AvailableDays returns the ordered distinct days in the slot list.
func (e *ManualEngine) AvailableDays() []time.Time {
	out := make([]time.Time, len(e.days))
	for i, g := range e.days {
		out[i] = g.day
	}
	return out
}

// CurrentDayIndex returns the cursor position within AvailableDays.
func (e *ManualEngine) CurrentDayIndex() int { return e.idx }

// CanNavigateBack implements Engine.
func (e *ManualEngine) CanNavigateBack() bool { return e.idx > 0 }

// CanNavigateForward implements Engine.
func (e *ManualEngine) CanNavigateForward() bool { return e.idx < len(e.days)-1 }

// NavigateBack moves to the previous day in the list.
func (e *ManualEngine) NavigateBack() bool {
	if !e.CanNavigateBack() {
		return false
	}
	e.idx--
	e.clearSelection()
	return true
}

// NavigateForward moves to the next day in the list.
func (e *ManualEngine) NavigateForward() bool {
	if !e.CanNavigateForward() {
		return false
	}
	e.idx++
	e.clearSelection()
	return true
}

func (e *ManualEngine) clearSelection() {
	e.selection = nil
	if e.notify != nil {
		e.notify(nil)
	}
}

// Select records a user-picked slot and forwards the raw value unchanged.
func (e *ManualEngine) Select(value string) {
	v := value
	e.selection = &v
	if e.notify != nil {
		e.notify(&v)
	}
}

// SetSelection applies the externally owned selection; when it falls on a
// listed day the cursor jumps there without clearing.
func (e *ManualEngine) SetSelection(value *string) {
	e.selection = value
	if value == nil {
		return
	}
	t, ok := ParseSelection(*value)
	if !ok {
		return
	}
	for i, g := range e.days {
		if SameDay(g.day, t) {
			e.idx = i
			return
		}
	}
}

// Selection returns the raw selection value, regardless of day.
func (e *ManualEngine) Selection() *string { return e.selection }

// IsSlotExcluded always reports false; manual lists are pre-filtered by the
// caller.
func (e *ManualEngine) IsSlotExcluded(time.Time) bool { return false }

// FormatSlotTime implements Engine.
func (e *ManualEngine) FormatSlotTime(t time.Time) string { return FormatSlotTime(t) }

func (e *ManualEngine) activeSelection() *string {
	if e.selection == nil || len(e.days) == 0 {
		return nil
	}
	t, ok := ParseSelection(*e.selection)
	if !ok || !SameDay(t, e.days[e.idx].day) {
		return nil
	}
	return e.selection
}

// View implements Engine. An empty slot list yields the alert state.
func (e *ManualEngine) View() View {
	v := View{
		CanNavigateBack:    e.CanNavigateBack(),
		CanNavigateForward: e.CanNavigateForward(),
		InfoText:           e.infoText,
		AlertTitle:         e.alertTitle,
		AlertDescription:   e.alertDescription,
	}
	if len(e.days) == 0 {
		v.Slots = []Slot{}
		return v
	}
	g := e.days[e.idx]
	v.Day = g.day
	v.DayLabel = FormatDayLabel(g.day)
	v.GroupName = GroupKey(g.day)
	v.Slots = make([]Slot, len(g.slots))
	for i, t := range g.slots {
		v.Slots[i] = Slot{Start: t}
	}
	v.HasAvailableSlots = len(g.slots) > 0
	v.Selection = e.activeSelection()
	return v
}
