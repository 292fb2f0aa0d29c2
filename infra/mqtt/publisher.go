package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kilianp07/mealprep/core/events"
	"github.com/kilianp07/mealprep/core/scheduler"
	"github.com/kilianp07/mealprep/internal/eventbus"
)

// Slot is one task on an appliance timeline.
type Slot struct {
	TaskID   string `json:"task_id,omitempty"`
	TaskName string `json:"task_name"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Parallel bool   `json:"parallel"`
}

// Timeline is the payload published per appliance.
type Timeline struct {
	PlanID         string `json:"plan_id"`
	Appliance      string `json:"appliance"`
	SessionMinutes int    `json:"session_duration_minutes"`
	Slots          []Slot `json:"slots"`
}

// PlanTopic returns the topic receiving the full plan.
func (p *Publisher) PlanTopic(key string) string {
	return fmt.Sprintf("%s/%s/plan", p.prefix, key)
}

// ApplianceTopic returns the topic receiving one appliance timeline.
func (p *Publisher) ApplianceTopic(key, appliance string) string {
	return fmt.Sprintf("%s/%s/appliance/%s", p.prefix, key, appliance)
}

// PlanKey identifies a plan in topic names: the session ID shared by its
// tasks when there is one, the plan ID otherwise.
func PlanKey(plan scheduler.Plan) string {
	for _, t := range plan.Tasks {
		if t.SessionID != "" {
			return t.SessionID
		}
	}
	if plan.ID != "" {
		return plan.ID
	}
	return "unsaved"
}

// PublishPlan publishes the full plan and one timeline per used appliance.
// Every topic is attempted; the returned error joins the failures.
func (p *Publisher) PublishPlan(plan scheduler.Plan) error {
	key := PlanKey(plan)
	payload, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	var errs []error
	if err := p.publish(p.PlanTopic(key), payload); err != nil {
		errs = append(errs, err)
	}
	for _, lane := range scheduler.Lanes(plan.Tasks) {
		tl := Timeline{
			PlanID:         plan.ID,
			Appliance:      string(lane.Appliance),
			SessionMinutes: plan.SessionMinutes,
			Slots:          make([]Slot, 0, len(lane.Tasks)),
		}
		for _, t := range lane.Tasks {
			tl.Slots = append(tl.Slots, Slot{
				TaskID:   t.ID,
				TaskName: t.Name,
				Start:    t.Start(),
				End:      t.End(),
				Parallel: scheduler.IsParallel(t),
			})
		}
		b, err := json.Marshal(tl)
		if err != nil {
			return err
		}
		if err := p.publish(p.ApplianceTopic(key, tl.Appliance), b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Start publishes every scheduled plan seen on the bus until ctx is done.
// The subscription is registered before Start returns.
func (p *Publisher) Start(ctx context.Context, bus eventbus.EventBus) {
	if bus == nil {
		return
	}
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
				e, ok := ev.(events.PlanScheduled)
				if !ok {
					continue
				}
				if err := p.PublishPlan(e.Plan); err != nil {
					p.logger.Errorf("publish plan %s: %v", e.Plan.ID, err)
				}
			}
		}
	}()
}
