// Package metrics defines the recorders used to observe the planner. Sinks
// such as PromSink and InfluxSink live in infra/metrics and register
// themselves in the sink factory; NewMetricsSink wraps several configured
// sinks in a MultiSink. Optional recorder interfaces are detected with type
// assertions, so a sink only implements what it can store.
package metrics
