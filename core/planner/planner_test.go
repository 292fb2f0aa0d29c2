package planner

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/mealprep/core/events"
	"github.com/kilianp07/mealprep/core/logger"
	"github.com/kilianp07/mealprep/core/model"
	"github.com/kilianp07/mealprep/internal/eventbus"
)

type captureLogger struct {
	mu    sync.Mutex
	warns []string
	errs  []string
	debug int
}

func (l *captureLogger) Debugf(string, ...any) {}
func (l *captureLogger) Infof(string, ...any)  {}

func (l *captureLogger) Debugw(string, logger.Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug++
}

func (l *captureLogger) Warnf(f string, a ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(f, a...))
}

func (l *captureLogger) Errorf(f string, a ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, fmt.Sprintf(f, a...))
}

func newTestPlanner(cfg Config, bus eventbus.EventBus, log *captureLogger) *Planner {
	p := New(cfg, bus, log)
	p.newID = func() string { return "plan-1" }
	fixed := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }
	return p
}

func expectEvent(t *testing.T, sub <-chan eventbus.Event) eventbus.Event {
	t.Helper()
	select {
	case ev := <-sub:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
	return nil
}

func TestPlannerSchedule_OverflowWarning(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()
	log := &captureLogger{}
	p := newTestPlanner(Config{}, bus, log)

	plan, err := p.Schedule([]model.Task{
		{Name: "Roast", DurationMinutes: 200, Appliance: model.ApplianceOven, OrderPriority: 1},
	}, 180)
	require.NoError(t, err)
	assert.Equal(t, "plan-1", plan.ID)
	assert.Equal(t, 0, plan.Tasks[0].Start())

	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], `task "Roast" would exceed session duration (0+200 > 180), scheduled at 0`)
	assert.Equal(t, 1, log.debug)

	ev, ok := expectEvent(t, sub).(events.PlanScheduled)
	require.True(t, ok)
	assert.Equal(t, "plan-1", ev.Plan.ID)
	assert.Equal(t, 1, ev.Summary.Overflows)
	assert.Equal(t, 200, ev.Summary.Makespan)
}

func TestPlannerSchedule_InvalidTask(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()
	log := &captureLogger{}
	p := newTestPlanner(Config{}, bus, log)

	_, err := p.Schedule([]model.Task{
		{Name: "Grill", DurationMinutes: 10, Appliance: "grill", OrderPriority: 1},
	}, 60)
	require.ErrorIs(t, err, model.ErrInvalidAppliance)
	assert.Len(t, log.errs, 1)
	select {
	case ev := <-sub:
		t.Fatalf("unexpected event %T", ev)
	default:
	}
}

func TestPlannerScheduleWithSummary(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()
	p := newTestPlanner(Config{}, bus, &captureLogger{})

	plan, summary, err := p.ScheduleWithSummary([]model.Task{
		{Name: "Prep", DurationMinutes: 15, Appliance: model.ApplianceCounter, OrderPriority: 1, CanParallel: true},
		{Name: "Roast", DurationMinutes: 60, Appliance: model.ApplianceOven, OrderPriority: 2},
	}, 120)
	require.NoError(t, err)
	assert.Equal(t, 60, summary.Makespan)
	assert.Len(t, summary.Appliances, 2)

	ev, ok := expectEvent(t, sub).(events.PlanScheduled)
	require.True(t, ok)
	assert.Equal(t, plan.ID, ev.Plan.ID)
	assert.Equal(t, summary, ev.Summary)
}

func TestPlannerBudget(t *testing.T) {
	tasks := []model.Task{{Name: "Roast", DurationMinutes: 75, Appliance: model.ApplianceOven, OrderPriority: 1}}
	cases := []struct {
		name      string
		cfg       Config
		requested int
		want      int
	}{
		{"requested wins", Config{DefaultSessionMinutes: 60}, 45, 45},
		{"configured default", Config{DefaultSessionMinutes: 60}, 0, 60},
		{"estimated", Config{}, 0, 90},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := newTestPlanner(c.cfg, nil, &captureLogger{})
			got, err := p.Budget(tasks, c.requested)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestPlannerScheduleUsesEstimate(t *testing.T) {
	p := newTestPlanner(Config{}, nil, &captureLogger{})
	plan, err := p.Schedule(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 120, plan.SessionMinutes)
}

func TestPlannerConflicts(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()
	log := &captureLogger{}
	p := newTestPlanner(Config{}, bus, log)

	a := model.Task{Name: "Sear", DurationMinutes: 10, Appliance: model.ApplianceStovetop1, OrderPriority: 1}
	b := model.Task{Name: "Sauce", DurationMinutes: 10, Appliance: model.ApplianceStovetop1, OrderPriority: 2}
	a.SetStart(0)
	b.SetStart(5)
	conflicts := p.Conflicts([]model.Task{a, b})
	require.Len(t, conflicts, 1)
	require.Len(t, log.warns, 1)
	assert.Equal(t, `conflict on stovetop_1: "Sear" [0,10) overlaps "Sauce" [5,15)`, log.warns[0])

	ev, ok := expectEvent(t, sub).(events.ConflictsChecked)
	require.True(t, ok)
	assert.Equal(t, 2, ev.Tasks)
	assert.Len(t, ev.Conflicts, 1)
}

func TestPlannerEstimate(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()
	p := newTestPlanner(Config{}, bus, &captureLogger{})

	minutes, err := p.Estimate(nil)
	require.NoError(t, err)
	assert.Equal(t, 120, minutes)
	ev, ok := expectEvent(t, sub).(events.DurationEstimated)
	require.True(t, ok)
	assert.Equal(t, 120, ev.Minutes)

	_, err = p.Estimate([]model.Task{{Name: "x", DurationMinutes: 1, Appliance: "grill", OrderPriority: 1}})
	assert.ErrorIs(t, err, model.ErrInvalidAppliance)
}

func TestNewWithoutLogger(t *testing.T) {
	p := New(Config{}, nil, nil)
	assert.IsType(t, logger.NopLogger{}, p.log)
	_, err := p.Schedule([]model.Task{{Name: "x", DurationMinutes: 10, Appliance: model.ApplianceOven, OrderPriority: 1}}, 5)
	require.NoError(t, err)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.NoError(t, Config{DefaultSessionMinutes: 30}.Validate())
	assert.NoError(t, Config{DefaultSessionMinutes: 360}.Validate())
	assert.Error(t, Config{DefaultSessionMinutes: 29}.Validate())
	assert.Error(t, Config{DefaultSessionMinutes: 361}.Validate())
}
