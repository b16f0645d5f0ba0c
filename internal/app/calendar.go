package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"slot-picker-service/internal/slots"
)

// busyPeriod is a time range imported from an external calendar.
type busyPeriod struct {
	Start time.Time
	End   time.Time
}

func (a *App) googleOAuthConfig() *oauth2.Config {
	if !a.Cfg.GoogleConfigured() {
		return nil
	}
	return &oauth2.Config{
		ClientID:     a.Cfg.GoogleClientID,
		ClientSecret: a.Cfg.GoogleClientSecret,
		RedirectURL:  a.Cfg.GoogleRedirectURL,
		Scopes: []string{
			calendar.CalendarReadonlyScope,
		},
		Endpoint: google.Endpoint,
	}
}

// GET /api/calendar/auth
func (a *App) GoogleAuthHandler(c *gin.Context) {
	oc := a.googleOAuthConfig()
	if oc == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Google Calendar not configured"})
		return
	}

	state := fmt.Sprintf("user_%s_%d", c.Query("user_id"), time.Now().Unix())
	url := oc.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.JSON(http.StatusOK, gin.H{
		"auth_url": url,
		"state":    state,
	})
}

// GET /oauth2callback
func (a *App) GoogleOAuth2CallbackHandler(c *gin.Context) {
	oc := a.googleOAuthConfig()
	if oc == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Google Calendar not configured"})
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code required"})
		return
	}

	token, err := oc.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to exchange code for token"})
		return
	}

	tokenJSON, _ := json.Marshal(token)
	c.JSON(http.StatusOK, gin.H{
		"message": "Authorization successful",
		"state":   state,
		"token":   string(tokenJSON),
	})
}

func (a *App) calendarService(ctx context.Context, c *gin.Context) (*calendar.Service, bool) {
	tokenStr := c.GetHeader("X-Google-Token")
	if tokenStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Google token required in X-Google-Token header"})
		return nil, false
	}
	var token oauth2.Token
	if err := json.Unmarshal([]byte(tokenStr), &token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token format"})
		return nil, false
	}
	oc := a.googleOAuthConfig()
	if oc == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Google Calendar not configured"})
		return nil, false
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(oc.Client(ctx, &token)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create calendar service"})
		return nil, false
	}
	return srv, true
}

// GET /api/calendar/calendars
func (a *App) GetGoogleCalendarList(c *gin.Context) {
	srv, ok := a.calendarService(c.Request.Context(), c)
	if !ok {
		return
	}

	calendarList, err := srv.CalendarList.List().Do()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to retrieve calendars: %v", err)})
		return
	}

	type calendarInfo struct {
		ID          string `json:"id"`
		Summary     string `json:"summary"`
		Description string `json:"description,omitempty"`
		Primary     bool   `json:"primary"`
		AccessRole  string `json:"access_role"`
	}
	var calendars []calendarInfo
	for _, item := range calendarList.Items {
		calendars = append(calendars, calendarInfo{
			ID:          item.Id,
			Summary:     item.Summary,
			Description: item.Description,
			Primary:     item.Primary,
			AccessRole:  item.AccessRole,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"calendars": calendars,
		"count":     len(calendars),
	})
}

// POST /api/schedules/:id/calendar-exclusions?calendar_id=&from=ISO&to=ISO
// Pulls events from a Google Calendar and marks every schedule slot they
// overlap as excluded. Only auto-mode schedules have a slot grid to match
// against.
func (a *App) ImportCalendarExclusionsHandler(c *gin.Context) {
	scheduleID := c.Param("id")
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
	if sched.Mode != ModeAuto {
		c.JSON(http.StatusBadRequest, gin.H{"error": "schedule is not in auto mode"})
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
		return
	}
	if !from.Before(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be before to"})
		return
	}

	srv, ok := a.calendarService(ctx, c)
	if !ok {
		return
	}

	calendarID := c.DefaultQuery("calendar_id", "primary")
	events, err := srv.Events.List(calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		MaxResults(250).
		Do()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to retrieve events: %v", err)})
		return
	}

	var busy []busyPeriod
	for _, item := range events.Items {
		if item.Status == "cancelled" || item.Start == nil || item.End == nil {
			continue
		}
		// All-day events carry Date instead of DateTime and block the
		// whole day.
		p, ok := parseEventPeriod(item.Start, item.End)
		if !ok {
			continue
		}
		busy = append(busy, p)
	}

	excluded := excludedSlotsForBusy(autoConfigFor(sched, nil), sched.SlotIntervalMins, from, to, busy)
	if err := a.AddExcludedSlots(ctx, scheduleID, excluded); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	a.Log.Info().
		Str("schedule_id", scheduleID).
		Int("events", len(busy)).
		Int("excluded_slots", len(excluded)).
		Msg("calendar exclusions imported")

	c.JSON(http.StatusOK, gin.H{
		"events":         len(busy),
		"excluded_slots": excluded,
	})
}

func parseEventPeriod(start, end *calendar.EventDateTime) (busyPeriod, bool) {
	var p busyPeriod
	switch {
	case start.DateTime != "":
		s, err := time.Parse(time.RFC3339, start.DateTime)
		if err != nil {
			return p, false
		}
		e, err := time.Parse(time.RFC3339, end.DateTime)
		if err != nil {
			return p, false
		}
		p.Start, p.End = s.UTC(), e.UTC()
	case start.Date != "":
		s, err := time.Parse("2006-01-02", start.Date)
		if err != nil {
			return p, false
		}
		e, err := time.Parse("2006-01-02", end.Date)
		if err != nil {
			return p, false
		}
		p.Start, p.End = s.UTC(), e.UTC()
	default:
		return p, false
	}
	return p, p.Start.Before(p.End)
}

// excludedSlotsForBusy walks the schedule's slot grid over [from, to] and
// collects every slot whose interval overlaps a busy period.
func excludedSlotsForBusy(cfg slots.AutoConfig, intervalMins int, from, to time.Time, busy []busyPeriod) []string {
	if intervalMins <= 0 {
		intervalMins = 30
	}
	slotLen := time.Duration(intervalMins) * time.Minute

	var out []string
	for day := slots.DayOf(from); !day.After(slots.DayOf(to)); day = day.AddDate(0, 0, 1) {
		for _, start := range slots.GenerateDaySlots(cfg, day) {
			end := start.Add(slotLen)
			for _, p := range busy {
				if p.Start.Before(end) && p.End.After(start) {
					out = append(out, start.Format(time.RFC3339))
					break
				}
			}
		}
	}
	return out
}
