package scheduler

import "github.com/kilianp07/mealprep/core/model"

// EstimateDuration returns the session length in minutes needed to fit
// tasks: the busiest appliance total plus TransitionBufferMinutes. Totals
// follow Accumulate, so parallel tasks count for their longest member.
// An empty list yields DefaultSessionMinutes. Tasks are validated like
// Schedule does, so anything Schedule rejects is rejected here too.
func EstimateDuration(tasks []model.Task) (int, error) {
	if len(tasks) == 0 {
		return DefaultSessionMinutes, nil
	}
	if err := model.ValidateTasks(tasks); err != nil {
		return 0, err
	}
	totals := newTracker()
	for _, t := range tasks {
		totals[t.Appliance] = Accumulate(totals[t.Appliance], t)
	}
	return totals.busiest() + TransitionBufferMinutes, nil
}
