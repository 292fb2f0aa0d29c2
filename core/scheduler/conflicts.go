package scheduler

import "github.com/kilianp07/mealprep/core/model"

// Conflict is a pair of tasks occupying the same appliance at the same time.
type Conflict struct {
	A model.Task `json:"a"`
	B model.Task `json:"b"`
}

// Overlap returns the number of minutes both tasks share.
func (c Conflict) Overlap() int {
	return max(0, min(c.A.End(), c.B.End())-max(c.A.Start(), c.B.Start()))
}

// FindConflicts compares every unordered pair of tasks and returns those on
// the same appliance whose [start, start+duration) intervals intersect.
// Pairs where both tasks are parallel on a shareable appliance never
// conflict. Unscheduled tasks are treated as starting at 0. Pairs are
// reported in list order, i before j.
func FindConflicts(tasks []model.Task) []Conflict {
	var conflicts []Conflict
	for i := 0; i < len(tasks); i++ {
		for j := i + 1; j < len(tasks); j++ {
			a, b := tasks[i], tasks[j]
			if a.Appliance != b.Appliance {
				continue
			}
			if a.Appliance.Shareable() && a.CanParallel && b.CanParallel {
				continue
			}
			if a.Start() < b.End() && b.Start() < a.End() {
				conflicts = append(conflicts, Conflict{A: a, B: b})
			}
		}
	}
	return conflicts
}
