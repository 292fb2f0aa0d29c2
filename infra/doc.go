// Package infra holds the adapters around the planner: zerolog logging,
// Prometheus and InfluxDB metrics sinks, the MQTT plan publisher and Sentry
// error reporting. They depend on core interfaces, never the other way.
package infra
