package scenarios

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/mealprep/core/metrics"
	"github.com/kilianp07/mealprep/core/planner"
	"github.com/kilianp07/mealprep/core/scheduler"
	"github.com/kilianp07/mealprep/infra/logger"
	"github.com/kilianp07/mealprep/infra/metrics"
	"github.com/kilianp07/mealprep/internal/eventbus"
)

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	bus := eventbus.New()
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	metrics.StartEventCollector(ctx, bus, sink)

	p := planner.New(planner.Config{}, bus, logger.NopLogger{})

	plan, err := p.Schedule(sc.Tasks, sc.SessionMinutes)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if plan.SessionMinutes != sc.Expected.SessionMinutes {
		t.Errorf("scenario %s expected session %d, got %d", sc.Name, sc.Expected.SessionMinutes, plan.SessionMinutes)
	}
	starts := startsByName(plan)
	for name, want := range sc.Expected.Starts {
		got, ok := starts[name]
		if !ok {
			t.Errorf("scenario %s: task %q missing from plan", sc.Name, name)
			continue
		}
		if got != want {
			t.Errorf("scenario %s: task %q expected start %d, got %d", sc.Name, name, want, got)
		}
	}
	if len(plan.Overflows) != len(sc.Expected.Overflows) {
		t.Errorf("scenario %s expected %d overflows, got %d", sc.Name, len(sc.Expected.Overflows), len(plan.Overflows))
	} else {
		for i, o := range plan.Overflows {
			if o.TaskName != sc.Expected.Overflows[i] {
				t.Errorf("scenario %s: overflow %d expected %q, got %q", sc.Name, i, sc.Expected.Overflows[i], o.TaskName)
			}
		}
	}
	if plan.Makespan() != sc.Expected.Makespan {
		t.Errorf("scenario %s expected makespan %d, got %d", sc.Name, sc.Expected.Makespan, plan.Makespan())
	}

	conflicts := p.Conflicts(plan.Tasks)
	if len(conflicts) != sc.Expected.Conflicts {
		t.Errorf("scenario %s expected %d conflicts, got %d", sc.Name, sc.Expected.Conflicts, len(conflicts))
	}

	estimate, err := p.Estimate(sc.Tasks)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if estimate != sc.Expected.Estimate {
		t.Errorf("scenario %s expected estimate %d, got %d", sc.Name, sc.Expected.Estimate, estimate)
	}

	// Events reach the sink in publish order, so once every estimate is
	// recorded the schedule run is too. An open session is estimated twice.
	wantEstimates := uint64(1)
	if sc.SessionMinutes == 0 {
		wantEstimates++
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		if histogramCount(t, reg, "mealprep_estimated_session_minutes") == wantEstimates {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("scenario %s: events never reached the sink", sc.Name)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if got, ok := gaugeValue(t, reg, "mealprep_plan_makespan_minutes"); !ok || int(got) != sc.Expected.Makespan {
		t.Errorf("scenario %s: makespan gauge %v, want %d", sc.Name, got, sc.Expected.Makespan)
	}
}

func startsByName(plan scheduler.Plan) map[string]int {
	out := make(map[string]int, len(plan.Tasks))
	for _, task := range plan.Tasks {
		out[task.Name] = task.Start()
	}
	return out
}

func histogramCount(t *testing.T, reg *prometheus.Registry, name string) uint64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	return 0
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) (float64, bool) {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetGauge().GetValue(), true
		}
	}
	return 0, false
}
