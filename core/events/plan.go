package events

import (
	"time"

	"github.com/kilianp07/mealprep/core/scheduler"
)

// PlanScheduled is published after every successful scheduling pass.
type PlanScheduled struct {
	Plan    scheduler.Plan
	Summary scheduler.Summary
	// Elapsed is the time spent computing the plan.
	Elapsed time.Duration
	Time    time.Time
}

// ConflictsChecked is published after a conflict check, including clean ones.
type ConflictsChecked struct {
	Tasks     int
	Conflicts []scheduler.Conflict
	Time      time.Time
}

// DurationEstimated is published when a session length has been estimated.
type DurationEstimated struct {
	Tasks   int
	Minutes int
	Time    time.Time
}
