package scheduler

import "github.com/kilianp07/mealprep/core/model"

// Session sizing defaults in minutes.
const (
	// DefaultSessionMinutes is returned by EstimateDuration for an empty task
	// list. It is a typical session length, not a computed value.
	DefaultSessionMinutes = 120
	// TransitionBufferMinutes is added on top of the busiest appliance.
	TransitionBufferMinutes = 15
)

// IsParallel reports whether t may share its appliance with other parallel
// tasks. Exclusive appliances ignore CanParallel.
func IsParallel(t model.Task) bool {
	return t.Appliance.Shareable() && t.CanParallel
}

// Accumulate folds t into the running occupancy total of its appliance.
// Parallel tasks overlap, so they only extend the total to their own
// duration; every other task is added on top of it.
func Accumulate(total int, t model.Task) int {
	if IsParallel(t) {
		return max(total, t.DurationMinutes)
	}
	return total + t.DurationMinutes
}

// tracker holds, per appliance, the minute offset at which it becomes free.
type tracker map[model.Appliance]int

func newTracker() tracker {
	appliances := model.Appliances()
	t := make(tracker, len(appliances))
	for _, a := range appliances {
		t[a] = 0
	}
	return t
}

func (t tracker) busiest() int {
	m := 0
	for _, v := range t {
		if v > m {
			m = v
		}
	}
	return m
}
