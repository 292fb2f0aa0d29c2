package model

import (
	"errors"
	"fmt"
)

// SessionStatus tracks the progress of a cooking session.
type SessionStatus string

const (
	SessionPlanned    SessionStatus = "planned"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// Bounds for a session budget in minutes.
const (
	MinSessionMinutes = 30
	MaxSessionMinutes = 360
)

var (
	// ErrInvalidSession is returned for sessions outside the accepted bounds.
	ErrInvalidSession = errors.New("invalid session")
	// ErrSessionCompleted is returned when planning a finished session.
	ErrSessionCompleted = errors.New("session already completed")
)

// Session is a bounded cooking window in which tasks are planned.
type Session struct {
	ID              string        `json:"id,omitempty" yaml:"id,omitempty"`
	Date            string        `json:"date,omitempty" yaml:"date,omitempty"`
	DurationMinutes int           `json:"duration_minutes" yaml:"duration_minutes"`
	Status          SessionStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// Validate checks the duration bounds and the status value. An empty status
// is accepted and treated as planned.
func (s Session) Validate() error {
	if s.DurationMinutes < MinSessionMinutes || s.DurationMinutes > MaxSessionMinutes {
		return fmt.Errorf("%w: duration_minutes %d outside [%d,%d]",
			ErrInvalidSession, s.DurationMinutes, MinSessionMinutes, MaxSessionMinutes)
	}
	switch s.Status {
	case "", SessionPlanned, SessionInProgress, SessionCompleted:
		return nil
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidSession, s.Status)
	}
}

// Active reports whether the session has not been completed yet.
func (s Session) Active() bool { return s.Status != SessionCompleted }
