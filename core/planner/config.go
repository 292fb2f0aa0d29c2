package planner

import (
	"fmt"

	"github.com/kilianp07/mealprep/core/model"
)

// Config defines planning parameters loaded from configuration.
type Config struct {
	// DefaultSessionMinutes is used when a request carries no session
	// budget. Zero sizes the session with the duration estimator instead.
	DefaultSessionMinutes int `json:"default_session_minutes"`
}

// Validate checks that a configured default fits a cooking session.
func (c Config) Validate() error {
	if c.DefaultSessionMinutes == 0 {
		return nil
	}
	if c.DefaultSessionMinutes < model.MinSessionMinutes || c.DefaultSessionMinutes > model.MaxSessionMinutes {
		return fmt.Errorf("default_session_minutes must be within [%d,%d], got %d",
			model.MinSessionMinutes, model.MaxSessionMinutes, c.DefaultSessionMinutes)
	}
	return nil
}
