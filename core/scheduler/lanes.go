package scheduler

import "github.com/kilianp07/mealprep/core/model"

// Lane is the ordered list of tasks assigned to one appliance.
type Lane struct {
	Appliance model.Appliance `json:"appliance"`
	Tasks     []model.Task    `json:"tasks"`
}

// Lanes groups tasks per appliance. Lanes follow model.Appliances order and
// appliances without tasks are omitted. Tasks within a lane are ordered by
// start time, then priority.
func Lanes(tasks []model.Task) []Lane {
	byAppliance := make(map[model.Appliance][]model.Task)
	for _, t := range SortByStart(tasks) {
		byAppliance[t.Appliance] = append(byAppliance[t.Appliance], t)
	}
	var lanes []Lane
	for _, a := range model.Appliances() {
		if ts := byAppliance[a]; len(ts) > 0 {
			lanes = append(lanes, Lane{Appliance: a, Tasks: ts})
		}
	}
	return lanes
}
