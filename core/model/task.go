package model

import (
	"errors"
	"fmt"
)

// ErrInvalidTask is returned when a task carries a non-positive duration or
// priority.
var ErrInvalidTask = errors.New("invalid task")

// Task is a single cooking step bound to one appliance.
type Task struct {
	ID              string    `json:"id,omitempty" yaml:"id,omitempty"`
	SessionID       string    `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	RecipeID        string    `json:"recipe_id,omitempty" yaml:"recipe_id,omitempty"`
	Name            string    `json:"task_name" yaml:"task_name"`
	DurationMinutes int       `json:"duration_minutes" yaml:"duration_minutes"`
	Appliance       Appliance `json:"appliance" yaml:"appliance"`
	OrderPriority   int       `json:"order_priority" yaml:"order_priority"`
	// StartTime is the offset in minutes from the session start. It stays
	// nil until the task has been scheduled.
	StartTime   *int `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	CanParallel bool `json:"can_parallel,omitempty" yaml:"can_parallel,omitempty"`
}

// Validate checks the appliance and the numeric fields.
func (t Task) Validate() error {
	if !t.Appliance.Valid() {
		return fmt.Errorf("task %q: %w: %q", t.Name, ErrInvalidAppliance, string(t.Appliance))
	}
	if t.DurationMinutes <= 0 {
		return fmt.Errorf("task %q: %w: duration_minutes must be positive", t.Name, ErrInvalidTask)
	}
	if t.OrderPriority <= 0 {
		return fmt.Errorf("task %q: %w: order_priority must be positive", t.Name, ErrInvalidTask)
	}
	return nil
}

// Start returns the assigned start offset, or 0 when unscheduled.
func (t Task) Start() int {
	if t.StartTime == nil {
		return 0
	}
	return *t.StartTime
}

// End returns Start plus the task duration.
func (t Task) End() int { return t.Start() + t.DurationMinutes }

// Scheduled reports whether a start time has been assigned.
func (t Task) Scheduled() bool { return t.StartTime != nil }

// SetStart assigns the start offset. The task keeps its own copy of the value.
func (t *Task) SetStart(minute int) {
	v := minute
	t.StartTime = &v
}

// ValidateTasks validates every task and returns the first failure.
func ValidateTasks(tasks []Task) error {
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}
