// Package logger declares the logging interface shared by the planner and
// its adapters, plus a no-op implementation. The zerolog implementation
// lives in infra/logger.
package logger

// Fields are structured key/value pairs attached to a log entry.
type Fields map[string]any

// Logger is the leveled logger injected into planner components.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs msg with structured fields, e.g. one entry per placed task.
	Debugw(msg string, fields Fields)
	Infof(format string, args ...any)
	// Warnf reports recoverable planning problems such as overflowing tasks
	// or double-booked appliances.
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards everything. It backs components built without a logger.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Debugw(string, Fields) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
