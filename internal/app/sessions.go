package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"slot-picker-service/internal/slots"
)

// Session binds one picker consumer to one engine instance. Engines are not
// safe for concurrent use, so every access goes through the session mutex.
type Session struct {
	ID         string
	ScheduleID string
	UserID     string
	Mode       string

	mu           sync.Mutex
	engine       slots.Engine
	lastNotified *string
	lastAccess   time.Time
}

func (s *Session) touch() { s.lastAccess = time.Now() }

// View returns the engine state for the displayed day.
func (s *Session) View() slots.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.engine.View()
}

// Navigate moves the day cursor. moved is false when the engine refused the
// move (boundary reached or every candidate day excluded).
func (s *Session) Navigate(direction string) (v slots.View, moved bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	switch direction {
	case "back":
		moved = s.engine.NavigateBack()
	case "forward":
		moved = s.engine.NavigateForward()
	default:
		return slots.View{}, false, false
	}
	return s.engine.View(), moved, true
}

// SetSelection applies an externally owned selection value.
func (s *Session) SetSelection(value *string) slots.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.engine.SetSelection(value)
	return s.engine.View()
}

// Select records a user-picked slot.
func (s *Session) Select(value string) slots.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.engine.Select(value)
	return s.engine.View()
}

// SelectionValue returns the raw selection, or nil.
func (s *Session) SelectionValue() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Selection()
}

// LastNotified returns the most recent value the engine pushed through its
// notification callback.
func (s *Session) LastNotified() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastNotified
}

// ApplyScheduleUpdate propagates an external schedule change into a live
// engine: a start date move for auto mode, a slot list swap for manual mode.
func (s *Session) ApplyScheduleUpdate(startDate string, manualSlots []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch e := s.engine.(type) {
	case *slots.AutoEngine:
		e.SetStartDate(startDate)
	case *slots.ManualEngine:
		if manualSlots != nil {
			e.SetSlots(manualSlots)
		}
	}
}

// SessionStore holds the live picker sessions. Sessions are process-local;
// nothing about them is persisted or shared across instances.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	log      zerolog.Logger
}

func NewSessionStore(ttl time.Duration, log zerolog.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		log:      log,
	}
}

// Add registers a fully built session.
func (st *SessionStore) Add(s *Session) {
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	st.log.Debug().Str("session_id", s.ID).Str("schedule_id", s.ScheduleID).Msg("session created")
}

func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

// ForSchedule returns the live sessions bound to a schedule, for pushing
// external config changes into them.
func (st *SessionStore) ForSchedule(scheduleID string) []*Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	var out []*Session
	for _, s := range st.sessions {
		if s.ScheduleID == scheduleID {
			out = append(out, s)
		}
	}
	return out
}

// Len reports the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// StartSweeper evicts sessions idle longer than the TTL until ctx is done.
func (st *SessionStore) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(st.ttl / 2)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st.sweep()
			}
		}
	}()
}

func (st *SessionStore) sweep() {
	cutoff := time.Now().Add(-st.ttl)
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, s := range st.sessions {
		s.mu.Lock()
		stale := s.lastAccess.Before(cutoff)
		s.mu.Unlock()
		if stale {
			delete(st.sessions, id)
			st.log.Debug().Str("session_id", id).Msg("session expired")
		}
	}
}

// NewSession loads the schedule's engine and registers a session for it. The
// notification callback lands on the session; it only ever fires while the
// session mutex is held by the calling engine method.
func (a *App) NewSession(ctx context.Context, sched *Schedule) (*Session, error) {
	s := &Session{
		ID:         uuid.NewString(),
		ScheduleID: sched.ID,
		UserID:     sched.UserID,
		Mode:       sched.Mode,
		lastAccess: time.Now(),
	}
	engine, err := a.BuildEngine(ctx, sched, func(value *string) {
		s.lastNotified = value
	})
	if err != nil {
		return nil, err
	}
	s.engine = engine
	a.Sessions.Add(s)
	return s, nil
}
