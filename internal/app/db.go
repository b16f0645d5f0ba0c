package app

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const scheduleColumns = `id,user_id,mode,title,start_date,slot_start_time,max_date,
	slot_count,slot_interval_minutes,break_minutes,excluded_days,excluded_slots,
	info_text,created_at,updated_at`

func scanSchedule(row pgx.Row) (*Schedule, error) {
	var s Schedule
	err := row.Scan(&s.ID, &s.UserID, &s.Mode, &s.Title, &s.StartDate, &s.SlotStartTime,
		&s.MaxDate, &s.SlotCount, &s.SlotIntervalMins, &s.BreakMins,
		&s.ExcludedDays, &s.ExcludedSlots, &s.InfoText, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// normalizeArrays keeps the array columns non-NULL; pgx encodes nil slices
// as SQL NULL.
func normalizeArrays(s *Schedule) {
	if s.ExcludedDays == nil {
		s.ExcludedDays = []string{}
	}
	if s.ExcludedSlots == nil {
		s.ExcludedSlots = []string{}
	}
}

func (a *App) InsertSchedule(ctx context.Context, s *Schedule) error {
	normalizeArrays(s)
	now := time.Now().UTC()
	q := `INSERT INTO schedules
	      (id, user_id, mode, title, start_date, slot_start_time, max_date,
	       slot_count, slot_interval_minutes, break_minutes, excluded_days,
	       excluded_slots, info_text, created_at, updated_at)
	      VALUES (gen_random_uuid(),$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$13)
	      RETURNING id`
	row := a.DB.QueryRow(ctx, q,
		s.UserID, s.Mode, s.Title, s.StartDate, s.SlotStartTime, s.MaxDate,
		s.SlotCount, s.SlotIntervalMins, s.BreakMins, s.ExcludedDays,
		s.ExcludedSlots, s.InfoText, now)
	if err := row.Scan(&s.ID); err != nil {
		return err
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	return nil
}

func (a *App) GetSchedule(ctx context.Context, id string) (*Schedule, error) {
	q := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id=$1`
	return scanSchedule(a.DB.QueryRow(ctx, q, id))
}

func (a *App) ListSchedules(ctx context.Context, userID string) ([]Schedule, error) {
	q := `SELECT ` + scheduleColumns + ` FROM schedules WHERE user_id=$1 ORDER BY created_at`
	rows, err := a.DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (a *App) UpdateSchedule(ctx context.Context, s *Schedule) error {
	normalizeArrays(s)
	now := time.Now().UTC()
	q := `UPDATE schedules
	      SET title=$1, start_date=$2, slot_start_time=$3, max_date=$4,
	          slot_count=$5, slot_interval_minutes=$6, break_minutes=$7,
	          excluded_days=$8, excluded_slots=$9, info_text=$10, updated_at=$11
	      WHERE id=$12 AND user_id=$13
	      RETURNING id`
	var id string
	err := a.DB.QueryRow(ctx, q,
		s.Title, s.StartDate, s.SlotStartTime, s.MaxDate,
		s.SlotCount, s.SlotIntervalMins, s.BreakMins,
		s.ExcludedDays, s.ExcludedSlots, s.InfoText, now,
		s.ID, s.UserID).Scan(&id)
	if err != nil {
		return err
	}
	s.UpdatedAt = now
	return nil
}

// AddExcludedSlots appends timestamps to a schedule's exclusion list,
// skipping values already present.
func (a *App) AddExcludedSlots(ctx context.Context, scheduleID string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	q := `UPDATE schedules
	      SET excluded_slots = (
	          SELECT array_agg(DISTINCT v) FROM unnest(excluded_slots || $1::text[]) AS v
	      ), updated_at = now()
	      WHERE id=$2`
	_, err := a.DB.Exec(ctx, q, values, scheduleID)
	return err
}

// ReplaceScheduleSlots swaps the manual slot list of a schedule in one
// transaction.
func (a *App) ReplaceScheduleSlots(ctx context.Context, scheduleID string, starts []time.Time) error {
	tx, err := a.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM schedule_slots WHERE schedule_id=$1`, scheduleID); err != nil {
		return err
	}
	for _, s := range starts {
		if _, err := tx.Exec(ctx,
			`INSERT INTO schedule_slots (schedule_id, start_at_utc) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			scheduleID, s.UTC()); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (a *App) ListScheduleSlots(ctx context.Context, scheduleID string) ([]time.Time, error) {
	q := `SELECT start_at_utc FROM schedule_slots WHERE schedule_id=$1 ORDER BY start_at_utc`
	rows, err := a.DB.Query(ctx, q, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t.UTC())
	}
	return out, rows.Err()
}

const bookingColumns = `id,schedule_id,user_id,attendee_email,start_at_utc,end_at_utc,
	status,source,type,description,title,created_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(&b.ID, &b.ScheduleID, &b.UserID, &b.AttendeeEmail,
		&b.StartAtUTC, &b.EndAtUTC, &b.Status, &b.Source, &b.Type,
		&b.Description, &b.Title, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListConfirmedBookings returns confirmed bookings for a schedule in
// [from, to); their start times feed back into the engines as excluded slots.
func (a *App) ListConfirmedBookings(ctx context.Context, scheduleID string, from, to time.Time) ([]Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings
	      WHERE schedule_id=$1 AND status='confirmed'
	      AND start_at_utc >= $2 AND start_at_utc < $3
	      ORDER BY start_at_utc`
	rows, err := a.DB.Query(ctx, q, scheduleID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (a *App) ListBookings(ctx context.Context, userID string, from, to time.Time, filtered bool) ([]Booking, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if filtered {
		q := `SELECT ` + bookingColumns + ` FROM bookings
		      WHERE user_id=$1 AND start_at_utc >= $2 AND start_at_utc < $3
		      ORDER BY start_at_utc`
		rows, err = a.DB.Query(ctx, q, userID, from, to)
	} else {
		q := `SELECT ` + bookingColumns + ` FROM bookings
		      WHERE user_id=$1
		      ORDER BY start_at_utc`
		rows, err = a.DB.Query(ctx, q, userID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}
