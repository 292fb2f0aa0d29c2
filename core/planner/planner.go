// Package planner wraps the pure scheduling functions with the service
// concerns around them: session sizing, logging of overflow warnings and
// publication of planning events.
package planner

import (
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/mealprep/core/events"
	"github.com/kilianp07/mealprep/core/logger"
	"github.com/kilianp07/mealprep/core/model"
	"github.com/kilianp07/mealprep/core/scheduler"
	"github.com/kilianp07/mealprep/internal/eventbus"
)

// Planner schedules task lists and reports on them. It holds no per-plan
// state and is safe for concurrent use.
type Planner struct {
	cfg   Config
	bus   eventbus.EventBus
	log   logger.Logger
	now   func() time.Time
	newID func() string
}

// New returns a Planner. bus may be nil when no one listens to events.
func New(cfg Config, bus eventbus.EventBus, log logger.Logger) *Planner {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Planner{
		cfg:   cfg,
		bus:   bus,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Budget resolves the session duration for tasks. A non-zero requested value
// wins, then the configured default, then the estimate.
func (p *Planner) Budget(tasks []model.Task, requested int) (int, error) {
	if requested != 0 {
		return requested, nil
	}
	if p.cfg.DefaultSessionMinutes > 0 {
		return p.cfg.DefaultSessionMinutes, nil
	}
	return p.Estimate(tasks)
}

// Schedule places tasks within the requested session budget. Overflowing
// tasks are logged as warnings and kept in the plan.
func (p *Planner) Schedule(tasks []model.Task, sessionMinutes int) (scheduler.Plan, error) {
	plan, _, err := p.ScheduleWithSummary(tasks, sessionMinutes)
	return plan, err
}

// ScheduleWithSummary is Schedule that also returns the utilisation summary
// published with the plan.
func (p *Planner) ScheduleWithSummary(tasks []model.Task, sessionMinutes int) (scheduler.Plan, scheduler.Summary, error) {
	budget, err := p.Budget(tasks, sessionMinutes)
	if err != nil {
		return scheduler.Plan{}, scheduler.Summary{}, err
	}
	started := p.now()
	plan, err := scheduler.Schedule(tasks, budget)
	if err != nil {
		p.log.Errorf("schedule %d tasks: %v", len(tasks), err)
		return scheduler.Plan{}, scheduler.Summary{}, err
	}
	elapsed := p.now().Sub(started)
	plan.ID = p.newID()

	for _, o := range plan.Overflows {
		p.log.Warnf("plan %s: %s", plan.ID, o)
	}
	for _, t := range plan.Tasks {
		p.log.Debugw("task placed", logger.Fields{
			"plan_id":   plan.ID,
			"task":      t.Name,
			"appliance": string(t.Appliance),
			"start":     t.Start(),
			"duration":  t.DurationMinutes,
			"parallel":  scheduler.IsParallel(t),
		})
	}
	p.log.Infof("plan %s: %d tasks in %d minutes, %d overflow(s)",
		plan.ID, len(plan.Tasks), plan.SessionMinutes, len(plan.Overflows))

	summary := scheduler.Summarize(plan)
	p.publish(events.PlanScheduled{
		Plan:    plan,
		Summary: summary,
		Elapsed: elapsed,
		Time:    p.now(),
	})
	return plan, summary, nil
}

// Conflicts reports overlapping tasks on the same appliance.
func (p *Planner) Conflicts(tasks []model.Task) []scheduler.Conflict {
	conflicts := scheduler.FindConflicts(tasks)
	for _, c := range conflicts {
		p.log.Warnf("conflict on %s: %q [%d,%d) overlaps %q [%d,%d)",
			c.A.Appliance, c.A.Name, c.A.Start(), c.A.End(), c.B.Name, c.B.Start(), c.B.End())
	}
	p.publish(events.ConflictsChecked{Tasks: len(tasks), Conflicts: conflicts, Time: p.now()})
	return conflicts
}

// Estimate returns the session length needed for tasks.
func (p *Planner) Estimate(tasks []model.Task) (int, error) {
	minutes, err := scheduler.EstimateDuration(tasks)
	if err != nil {
		p.log.Errorf("estimate %d tasks: %v", len(tasks), err)
		return 0, err
	}
	p.log.Debugf("estimated %d minutes for %d tasks", minutes, len(tasks))
	p.publish(events.DurationEstimated{Tasks: len(tasks), Minutes: minutes, Time: p.now()})
	return minutes, nil
}

func (p *Planner) publish(ev eventbus.Event) {
	if p.bus != nil {
		p.bus.Publish(ev)
	}
}
