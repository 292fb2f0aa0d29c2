package metrics

import (
	"context"

	"github.com/kilianp07/mealprep/core/events"
	coremetrics "github.com/kilianp07/mealprep/core/metrics"
	"github.com/kilianp07/mealprep/core/scheduler"
	"github.com/kilianp07/mealprep/infra/logger"
	"github.com/kilianp07/mealprep/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// planning events. It stops when the context is canceled. The subscription
// is registered before StartEventCollector returns.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	log := logger.New("metrics-collector")
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := record(sink, ev); err != nil {
					log.Errorf("record %T: %v", ev, err)
				}
			}
		}
	}()
}

func record(sink coremetrics.MetricsSink, ev eventbus.Event) error {
	switch e := ev.(type) {
	case events.PlanScheduled:
		if err := sink.RecordScheduleRun(RunFromEvent(e)); err != nil {
			return err
		}
		if r, ok := sink.(coremetrics.PlacementRecorder); ok {
			return r.RecordTaskPlacements(PlacementsFromEvent(e))
		}
	case events.ConflictsChecked:
		if r, ok := sink.(coremetrics.ConflictRecorder); ok {
			return r.RecordConflicts(ConflictsFromEvent(e))
		}
	case events.DurationEstimated:
		if r, ok := sink.(coremetrics.EstimateRecorder); ok {
			return r.RecordEstimate(coremetrics.EstimateEvent{
				Tasks:           e.Tasks,
				DurationMinutes: e.Minutes,
				Time:            e.Time,
			})
		}
	}
	return nil
}

// RunFromEvent converts a PlanScheduled event into its metrics record.
func RunFromEvent(e events.PlanScheduled) coremetrics.ScheduleRun {
	return coremetrics.ScheduleRun{
		PlanID:          e.Plan.ID,
		SessionMinutes:  e.Plan.SessionMinutes,
		Tasks:           len(e.Plan.Tasks),
		Overflows:       len(e.Plan.Overflows),
		Makespan:        e.Summary.Makespan,
		MeanUtilization: e.Summary.MeanUtilization,
		PeakUtilization: e.Summary.PeakUtilization,
		Elapsed:         e.Elapsed,
		Time:            e.Time,
	}
}

// PlacementsFromEvent lists the start time of every task in the plan. Overflows are
// matched to tasks in plan order.
func PlacementsFromEvent(e events.PlanScheduled) []coremetrics.TaskPlacement {
	out := make([]coremetrics.TaskPlacement, 0, len(e.Plan.Tasks))
	next := 0
	for _, t := range e.Plan.Tasks {
		clamped := false
		if next < len(e.Plan.Overflows) {
			o := e.Plan.Overflows[next]
			if o.TaskID == t.ID && o.TaskName == t.Name && o.Appliance == t.Appliance && o.Clamped == t.Start() {
				clamped = true
				next++
			}
		}
		out = append(out, coremetrics.TaskPlacement{
			PlanID:          e.Plan.ID,
			TaskID:          t.ID,
			TaskName:        t.Name,
			Appliance:       string(t.Appliance),
			StartMinute:     t.Start(),
			DurationMinutes: t.DurationMinutes,
			Parallel:        scheduler.IsParallel(t),
			Clamped:         clamped,
			Time:            e.Time,
		})
	}
	return out
}

// ConflictsFromEvent counts the conflicting pairs of a check per appliance.
func ConflictsFromEvent(e events.ConflictsChecked) coremetrics.ConflictReport {
	per := make(map[string]int)
	for _, c := range e.Conflicts {
		per[string(c.A.Appliance)]++
	}
	return coremetrics.ConflictReport{Tasks: e.Tasks, PerAppliance: per, Time: e.Time}
}
