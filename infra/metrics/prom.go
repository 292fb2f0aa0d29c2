package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/mealprep/core/metrics"
)

// PromSink records planning activity in Prometheus metrics.
type PromSink struct {
	runs       *prometheus.CounterVec
	latency    prometheus.Histogram
	makespan   prometheus.Gauge
	peak       prometheus.Gauge
	placements *prometheus.CounterVec
	conflicts  *prometheus.CounterVec
	estimates  prometheus.Histogram
}

// NewPromSink registers planning metrics on the default Prometheus registerer.
// The metrics are served on the API listener under /metrics.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by a previous sink are reused.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.runs, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mealprep_schedule_runs_total",
		Help: "Number of scheduling passes",
	}, []string{"overflow"})); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mealprep_schedule_duration_seconds",
		Help:    "Time spent computing a plan",
		Buckets: prometheus.ExponentialBuckets(0.00001, 10, 6),
	})); err != nil {
		return nil, err
	}
	if s.makespan, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mealprep_plan_makespan_minutes",
		Help: "Latest task end of the last plan",
	})); err != nil {
		return nil, err
	}
	if s.peak, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mealprep_plan_peak_utilization_ratio",
		Help: "Busiest appliance occupancy over session length for the last plan",
	})); err != nil {
		return nil, err
	}
	if s.placements, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mealprep_task_placements_total",
		Help: "Tasks placed by the scheduler",
	}, []string{"appliance", "clamped"})); err != nil {
		return nil, err
	}
	if s.conflicts, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mealprep_conflicts_total",
		Help: "Conflicting task pairs detected",
	}, []string{"appliance"})); err != nil {
		return nil, err
	}
	if s.estimates, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mealprep_estimated_session_minutes",
		Help:    "Estimated session lengths",
		Buckets: []float64{30, 60, 90, 120, 180, 240, 300, 360},
	})); err != nil {
		return nil, err
	}
	return s, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordScheduleRun counts the run and updates the last plan gauges.
func (s *PromSink) RecordScheduleRun(run coremetrics.ScheduleRun) error {
	s.runs.WithLabelValues(strconv.FormatBool(run.Overflows > 0)).Inc()
	s.latency.Observe(run.Elapsed.Seconds())
	s.makespan.Set(float64(run.Makespan))
	s.peak.Set(run.PeakUtilization)
	return nil
}

// RecordTaskPlacements counts placements per appliance.
func (s *PromSink) RecordTaskPlacements(ps []coremetrics.TaskPlacement) error {
	for _, p := range ps {
		s.placements.WithLabelValues(p.Appliance, strconv.FormatBool(p.Clamped)).Inc()
	}
	return nil
}

// RecordConflicts adds the detected pairs per appliance.
func (s *PromSink) RecordConflicts(r coremetrics.ConflictReport) error {
	for appliance, n := range r.PerAppliance {
		s.conflicts.WithLabelValues(appliance).Add(float64(n))
	}
	return nil
}

// RecordEstimate observes an estimated session length.
func (s *PromSink) RecordEstimate(ev coremetrics.EstimateEvent) error {
	s.estimates.Observe(float64(ev.DurationMinutes))
	return nil
}
