package metrics

import "time"

// ScheduleRun summarises one scheduling pass.
type ScheduleRun struct {
	PlanID          string
	SessionMinutes  int
	Tasks           int
	Overflows       int
	Makespan        int
	MeanUtilization float64
	PeakUtilization float64
	Elapsed         time.Duration
	Time            time.Time
}

// MetricsSink records scheduling results for observability purposes.
type MetricsSink interface {
	RecordScheduleRun(run ScheduleRun) error
}

// TaskPlacement is the start time given to one task in a plan.
type TaskPlacement struct {
	PlanID          string
	TaskID          string
	TaskName        string
	Appliance       string
	StartMinute     int
	DurationMinutes int
	Parallel        bool
	Clamped         bool
	Time            time.Time
}

// PlacementRecorder records individual task placements.
type PlacementRecorder interface {
	RecordTaskPlacements(p []TaskPlacement) error
}

// ConflictReport counts conflicting pairs per appliance.
type ConflictReport struct {
	Tasks        int
	PerAppliance map[string]int
	Time         time.Time
}

// Total returns the number of conflicting pairs over all appliances.
func (r ConflictReport) Total() int {
	n := 0
	for _, c := range r.PerAppliance {
		n += c
	}
	return n
}

// ConflictRecorder records conflict checks.
type ConflictRecorder interface {
	RecordConflicts(r ConflictReport) error
}

// EstimateEvent captures an estimated session length.
type EstimateEvent struct {
	Tasks           int
	DurationMinutes int
	Time            time.Time
}

// EstimateRecorder records session length estimates.
type EstimateRecorder interface {
	RecordEstimate(ev EstimateEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordScheduleRun(ScheduleRun) error            { return nil }
func (NopSink) RecordTaskPlacements([]TaskPlacement) error     { return nil }
func (NopSink) RecordConflicts(ConflictReport) error           { return nil }
func (NopSink) RecordEstimate(EstimateEvent) error             { return nil }
