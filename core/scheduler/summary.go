package scheduler

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/mealprep/core/model"
)

// ApplianceUsage describes how much of the session an appliance is busy.
type ApplianceUsage struct {
	Appliance   model.Appliance `json:"appliance"`
	Tasks       int             `json:"tasks"`
	BusyMinutes int             `json:"busy_minutes"`
	Utilization float64         `json:"utilization"`
}

// Summary aggregates appliance usage over a plan.
type Summary struct {
	SessionMinutes  int              `json:"session_duration_minutes"`
	Makespan        int              `json:"makespan_minutes"`
	Appliances      []ApplianceUsage `json:"appliances"`
	MeanUtilization float64          `json:"mean_utilization"`
	PeakUtilization float64          `json:"peak_utilization"`
	Overflows       int              `json:"overflows"`
}

// Summarize computes per-appliance busy time using the same occupancy rule
// as the scheduler. Only appliances with at least one task are listed, in
// the order returned by model.Appliances.
func Summarize(p Plan) Summary {
	s := Summary{
		SessionMinutes: p.SessionMinutes,
		Makespan:       p.Makespan(),
		Overflows:      len(p.Overflows),
		Appliances:     []ApplianceUsage{},
	}
	busy := newTracker()
	counts := make(map[model.Appliance]int)
	for _, t := range p.Tasks {
		busy[t.Appliance] = Accumulate(busy[t.Appliance], t)
		counts[t.Appliance]++
	}
	var ratios []float64
	for _, a := range model.Appliances() {
		if counts[a] == 0 {
			continue
		}
		u := ApplianceUsage{Appliance: a, Tasks: counts[a], BusyMinutes: busy[a]}
		if p.SessionMinutes > 0 {
			u.Utilization = float64(busy[a]) / float64(p.SessionMinutes)
		}
		ratios = append(ratios, u.Utilization)
		s.Appliances = append(s.Appliances, u)
	}
	if len(ratios) > 0 {
		s.MeanUtilization = stat.Mean(ratios, nil)
		s.PeakUtilization = floats.Max(ratios)
	}
	return s
}
