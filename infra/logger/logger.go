// Package logger provides the zerolog-backed implementation of the planner
// logging interface.
package logger

import corelogger "github.com/kilianp07/mealprep/core/logger"

type (
	Logger    = corelogger.Logger
	Fields    = corelogger.Fields
	NopLogger = corelogger.NopLogger
)

// New returns the logger of a planner component: JSON on stdout, or
// human-readable console output when APP_ENV=dev.
func New(component string) Logger {
	return NewZerologLogger(component)
}
