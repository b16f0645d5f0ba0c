package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"slot-picker-service/internal/slots"
)

// POST /api/users/:id/schedules
func (a *App) CreateScheduleHandler(c *gin.Context) {
	userID := c.Param("id")
	var payload Schedule
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if payload.Mode != ModeAuto && payload.Mode != ModeManual {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be auto or manual"})
		return
	}
	if payload.Mode == ModeAuto && payload.SlotCount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot_count is required for auto mode"})
		return
	}
	payload.UserID = userID

	if err := a.InsertSchedule(c.Request.Context(), &payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	a.Log.Info().Str("schedule_id", payload.ID).Str("mode", payload.Mode).Msg("schedule created")
	c.JSON(http.StatusCreated, payload)
}

// GET /api/users/:id/schedules
func (a *App) ListSchedulesHandler(c *gin.Context) {
	schedules, err := a.ListSchedules(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// GET /api/schedules/:id
func (a *App) GetScheduleHandler(c *gin.Context) {
	sched, err := a.GetSchedule(c.Request.Context(), c.Param("id"))
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sched)
}

// PUT /api/schedules/:id
// Live sessions on the schedule see a start date move immediately.
func (a *App) UpdateScheduleHandler(c *gin.Context) {
	var payload Schedule
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload.ID = c.Param("id")

	err := a.UpdateSchedule(c.Request.Context(), &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for _, s := range a.Sessions.ForSchedule(payload.ID) {
		s.ApplyScheduleUpdate(payload.StartDate, nil)
	}
	c.JSON(http.StatusOK, payload)
}

type replaceSlotsReq struct {
	Slots []string `json:"slots" binding:"required"`
}

// PUT /api/schedules/:id/slots
// Replaces the manual slot list; unparseable entries are dropped, matching
// the engine's behavior. Live manual sessions pick up the new list and keep
// their day when it survives the swap.
func (a *App) ReplaceManualSlotsHandler(c *gin.Context) {
	scheduleID := c.Param("id")
	var req replaceSlotsReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	sched, err := a.GetSchedule(ctx, scheduleID)
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sched.Mode != ModeManual {
		c.JSON(http.StatusBadRequest, gin.H{"error": "schedule is not in manual mode"})
		return
	}

	starts := make([]time.Time, 0, len(req.Slots))
	values := make([]string, 0, len(req.Slots))
	for _, raw := range req.Slots {
		if t, ok := slots.ParseSelection(raw); ok {
			starts = append(starts, t)
			values = append(values, t.Format(time.RFC3339))
		}
	}
	if err := a.ReplaceScheduleSlots(ctx, scheduleID, starts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for _, s := range a.Sessions.ForSchedule(scheduleID) {
		s.ApplyScheduleUpdate("", values)
	}
	c.JSON(http.StatusOK, gin.H{"slots": len(starts)})
}

// POST /api/schedules/:id/sessions
func (a *App) CreateSessionHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sched, err := a.GetSchedule(ctx, c.Param("id"))
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	session, err := a.NewSession(ctx, sched)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session_id": session.ID,
		"view":       session.View(),
	})
}

// GET /api/sessions/:id
func (a *App) GetSessionHandler(c *gin.Context) {
	session, ok := a.Sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"view":       session.View(),
	})
}

// DELETE /api/sessions/:id
func (a *App) DeleteSessionHandler(c *gin.Context) {
	if !a.Sessions.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type navigateReq struct {
	Direction string `json:"direction" binding:"required"`
}

// POST /api/sessions/:id/navigate
// moved=false with a 200 means the engine kept the cursor (boundary hit or
// every candidate day excluded); that is a valid outcome, not an error.
func (a *App) NavigateSessionHandler(c *gin.Context) {
	session, ok := a.Sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	var req navigateReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, moved, ok := session.Navigate(req.Direction)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be back or forward"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": view, "moved": moved})
}

type selectionReq struct {
	Value *string `json:"value"`
}

// PUT /api/sessions/:id/selection
// A selection on another day moves the session's day cursor there.
func (a *App) SetSelectionHandler(c *gin.Context) {
	session, ok := a.Sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	var req selectionReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": session.SetSelection(req.Value)})
}

type createBookingReq struct {
	AttendeeEmail string `json:"attendee_email" binding:"required,email"`
	Source        string `json:"source,omitempty"`
	Type          string `json:"type,omitempty"`
	Description   string `json:"description,omitempty"`
	Title         string `json:"title,omitempty"`
}

// POST /api/sessions/:id/bookings
// Confirms the session's active selection. The selection must sit on the
// displayed day and resolve to a non-excluded slot in the current view.
func (a *App) CreateBookingHandler(c *gin.Context) {
	session, ok := a.Sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	var req createBookingReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view := session.View()
	if view.Selection == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no slot selected"})
		return
	}
	start, parsed := slots.ParseSelection(*view.Selection)
	if !parsed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid selection"})
		return
	}
	start = start.Truncate(time.Minute)

	available := false
	for _, s := range view.Slots {
		if s.Start.Truncate(time.Minute).Equal(start) {
			available = !s.Excluded
			break
		}
	}
	if !available {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot not available"})
		return
	}

	ctx := context.Background()
	sched, err := a.GetSchedule(ctx, session.ScheduleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	length := sched.SlotIntervalMins
	if length <= 0 {
		length = 30
	}
	end := start.Add(time.Duration(length) * time.Minute)

	tx, err := a.DB.Begin(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer tx.Rollback(ctx)

	// Double-booking check on the exact start timestamp.
	checkQ := `SELECT id FROM bookings
	           WHERE schedule_id=$1 AND status='confirmed' AND start_at_utc=$2
	           FOR UPDATE`
	var existingID string
	err = tx.QueryRow(ctx, checkQ, session.ScheduleID, start).Scan(&existingID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if existingID != "" {
		c.JSON(http.StatusConflict, gin.H{"error": "slot already booked"})
		return
	}

	insertQ := `INSERT INTO bookings
	    (id, schedule_id, user_id, attendee_email, start_at_utc, end_at_utc,
	     status, source, type, description, title, created_at)
	    VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, 'confirmed', $6, $7, $8, $9, now())
	    RETURNING id`
	var newID string
	err = tx.QueryRow(ctx, insertQ,
		session.ScheduleID, session.UserID, req.AttendeeEmail, start, end,
		req.Source, req.Type, req.Description, req.Title).Scan(&newID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := tx.Commit(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	a.Log.Info().
		Str("booking_id", newID).
		Str("schedule_id", session.ScheduleID).
		Time("start_at_utc", start).
		Msg("booking confirmed")

	c.JSON(http.StatusCreated, gin.H{
		"id":           newID,
		"status":       "confirmed",
		"start_at_utc": start,
		"end_at_utc":   end,
		"source":       req.Source,
		"type":         req.Type,
		"description":  req.Description,
		"title":        req.Title,
	})
}

// GET /api/users/:id/bookings?from=ISO&to=ISO
func (a *App) ListBookingsHandler(c *gin.Context) {
	userID := c.Param("id")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	var (
		from time.Time
		to   time.Time
		err  error
	)
	if fromStr != "" && toStr != "" {
		from, err = time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
			return
		}
		to, err = time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
			return
		}
		if !from.Before(to) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be before to"})
			return
		}
	}

	bookings, err := a.ListBookings(c.Request.Context(), userID, from, to, fromStr != "" && toStr != "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// DELETE /api/bookings/:id
func (a *App) CancelBookingHandler(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	checkQ := `SELECT status FROM bookings WHERE id=$1`
	var currentStatus string
	err := a.DB.QueryRow(ctx, checkQ, id).Scan(&currentStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if currentStatus == "cancelled" {
		c.JSON(http.StatusConflict, gin.H{"error": "booking already cancelled"})
		return
	}

	updateQ := `UPDATE bookings SET status='cancelled' WHERE id=$1 AND status != 'cancelled'`
	res, err := a.DB.Exec(ctx, updateQ, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if res.RowsAffected() == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "booking not found"})
		return
	}

	a.Log.Info().Str("booking_id", id).Msg("booking cancelled")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
