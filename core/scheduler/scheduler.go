package scheduler

import (
	"fmt"
	"sort"

	"github.com/kilianp07/mealprep/core/model"
)

// Overflow records a task whose natural placement ran past the session end
// and was pinned against it instead.
type Overflow struct {
	TaskID          string          `json:"task_id,omitempty"`
	TaskName        string          `json:"task_name"`
	Appliance       model.Appliance `json:"appliance"`
	DurationMinutes int             `json:"duration_minutes"`
	// Start is the placement computed from appliance availability.
	Start int `json:"start"`
	// Clamped is the start time actually assigned.
	Clamped        int `json:"clamped"`
	SessionMinutes int `json:"session_minutes"`
}

func (o Overflow) String() string {
	return fmt.Sprintf("task %q would exceed session duration (%d+%d > %d), scheduled at %d",
		o.TaskName, o.Start, o.DurationMinutes, o.SessionMinutes, o.Clamped)
}

// Plan is the result of a scheduling pass.
type Plan struct {
	ID             string `json:"plan_id,omitempty"`
	SessionMinutes int    `json:"session_duration_minutes"`
	// Tasks are in priority order, each with StartTime set.
	Tasks     []model.Task `json:"tasks"`
	Overflows []Overflow   `json:"overflows,omitempty"`
}

// Makespan returns the latest end offset of the plan.
func (p Plan) Makespan() int {
	end := 0
	for _, t := range p.Tasks {
		if e := t.End(); e > end {
			end = e
		}
	}
	return end
}

// Schedule assigns a start time to every task within sessionMinutes.
//
// Tasks are stable sorted by ascending OrderPriority and placed greedily at
// the time their appliance becomes free. Exclusive placements advance the
// appliance; parallel ones on the counter or fridge leave it untouched.
// A placement ending after the session is clamped to
// max(0, sessionMinutes-duration) and reported as an Overflow. The appliance
// tracker keeps the unclamped end, so clamped tasks may overlap earlier ones
// at the session boundary.
//
// The input slice is not modified; the returned plan holds copies.
func Schedule(tasks []model.Task, sessionMinutes int) (Plan, error) {
	if sessionMinutes <= 0 {
		return Plan{}, fmt.Errorf("%w: session duration must be positive, got %d",
			model.ErrInvalidSession, sessionMinutes)
	}
	if err := model.ValidateTasks(tasks); err != nil {
		return Plan{}, err
	}

	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderPriority < sorted[j].OrderPriority
	})

	busy := newTracker()
	plan := Plan{SessionMinutes: sessionMinutes, Tasks: sorted}
	for i := range sorted {
		t := &sorted[i]
		start := busy[t.Appliance]
		if !IsParallel(*t) {
			busy[t.Appliance] = Accumulate(start, *t)
		}
		if start+t.DurationMinutes > sessionMinutes {
			clamped := max(0, sessionMinutes-t.DurationMinutes)
			plan.Overflows = append(plan.Overflows, Overflow{
				TaskID:          t.ID,
				TaskName:        t.Name,
				Appliance:       t.Appliance,
				DurationMinutes: t.DurationMinutes,
				Start:           start,
				Clamped:         clamped,
				SessionMinutes:  sessionMinutes,
			})
			start = clamped
		}
		t.SetStart(start)
	}
	return plan, nil
}

// SortByStart returns a copy of tasks ordered by start time, then priority.
func SortByStart(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start() != out[j].Start() {
			return out[i].Start() < out[j].Start()
		}
		return out[i].OrderPriority < out[j].OrderPriority
	})
	return out
}
