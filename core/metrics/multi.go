package metrics

// MultiSink fans out records to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordScheduleRun forwards the run to all sinks, returning the first error encountered.
func (m *MultiSink) RecordScheduleRun(run ScheduleRun) error {
	for _, s := range m.Sinks {
		if err := s.RecordScheduleRun(run); err != nil {
			return err
		}
	}
	return nil
}

// RecordTaskPlacements forwards placements to sinks that support them.
func (m *MultiSink) RecordTaskPlacements(p []TaskPlacement) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(PlacementRecorder); ok {
			if err := rec.RecordTaskPlacements(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordConflicts forwards conflict reports.
func (m *MultiSink) RecordConflicts(r ConflictReport) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ConflictRecorder); ok {
			if err := rec.RecordConflicts(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordEstimate forwards estimates.
func (m *MultiSink) RecordEstimate(ev EstimateEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(EstimateRecorder); ok {
			if err := rec.RecordEstimate(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
