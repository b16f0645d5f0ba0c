package app

import (
	"context"
	"fmt"
	"time"

	"slot-picker-service/internal/slots"
)

// autoConfigFor maps a stored schedule onto the engine config. extraExcluded
// carries slot exclusions that live outside the schedule row, currently the
// confirmed bookings.
func autoConfigFor(s *Schedule, extraExcluded []string) slots.AutoConfig {
	excluded := make([]string, 0, len(s.ExcludedSlots)+len(extraExcluded))
	excluded = append(excluded, s.ExcludedSlots...)
	excluded = append(excluded, extraExcluded...)
	return slots.AutoConfig{
		StartDate:     s.StartDate,
		SlotStartTime: s.SlotStartTime,
		MaxDate:       s.MaxDate,
		SlotCount:     s.SlotCount,
		SlotInterval:  s.SlotIntervalMins,
		BreakDuration: s.BreakMins,
		ExcludedDays:  s.ExcludedDays,
		ExcludedSlots: excluded,
		InfoText:      s.InfoText,
	}
}

// bookingWindow is the range over which confirmed bookings are folded into a
// new engine: from today to the schedule's max date, capped at the
// navigation horizon.
func bookingWindow(s *Schedule) (time.Time, time.Time) {
	from := slots.DayOf(time.Now())
	to := from.AddDate(0, 0, 366)
	if t, ok := slots.ParseSelection(s.MaxDate); ok {
		if capped := slots.DayOf(t).AddDate(0, 0, 1); capped.Before(to) {
			to = capped
		}
	}
	return from, to
}

// BuildEngine constructs the slot engine for a schedule. Auto mode merges
// confirmed bookings into the exclusion list; manual mode loads the stored
// slot rows.
func (a *App) BuildEngine(ctx context.Context, sched *Schedule, notify slots.NotifyFunc) (slots.Engine, error) {
	switch sched.Mode {
	case ModeManual:
		starts, err := a.ListScheduleSlots(ctx, sched.ID)
		if err != nil {
			return nil, fmt.Errorf("load manual slots: %w", err)
		}
		values := make([]string, len(starts))
		for i, t := range starts {
			values[i] = t.Format(time.RFC3339)
		}
		return slots.NewManualEngine(slots.ManualConfig{
			Slots:    values,
			InfoText: sched.InfoText,
		}, notify), nil

	case ModeAuto:
		from, to := bookingWindow(sched)
		bookings, err := a.ListConfirmedBookings(ctx, sched.ID, from, to)
		if err != nil {
			return nil, fmt.Errorf("load bookings: %w", err)
		}
		booked := make([]string, len(bookings))
		for i, b := range bookings {
			booked[i] = b.StartAtUTC.Format(time.RFC3339)
		}
		return slots.NewAutoEngine(autoConfigFor(sched, booked), notify), nil

	default:
		return nil, fmt.Errorf("unknown schedule mode %q", sched.Mode)
	}
}
