// Package events defines the planning events emitted on the event bus.
//
// Available event types:
//   - PlanScheduled: a scheduling pass completed
//   - ConflictsChecked: a conflict check ran over a task list
//   - DurationEstimated: a session length was estimated
package events
