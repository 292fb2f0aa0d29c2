package config

import (
	"fmt"
	"time"
)

// APIConfig defines the HTTP listener settings.
type APIConfig struct {
	Address string `json:"address"`
	// Token, when set, is required as a bearer token on /api routes.
	Token                  string `json:"token"`
	ReadTimeoutSeconds     int    `json:"read_timeout_seconds"`
	ShutdownTimeoutSeconds int    `json:"shutdown_timeout_seconds"`
	// MaxTasks bounds the number of tasks accepted per request.
	MaxTasks int `json:"max_tasks"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.ReadTimeoutSeconds == 0 {
		c.ReadTimeoutSeconds = 10
	}
	if c.ShutdownTimeoutSeconds == 0 {
		c.ShutdownTimeoutSeconds = 5
	}
	if c.MaxTasks == 0 {
		c.MaxTasks = 500
	}
}

// Validate checks the numeric settings.
func (c APIConfig) Validate() error {
	if c.ReadTimeoutSeconds < 0 || c.ShutdownTimeoutSeconds < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.MaxTasks < 0 {
		return fmt.Errorf("max_tasks must not be negative")
	}
	return nil
}

// ReadTimeout returns the request read timeout.
func (c APIConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown deadline.
func (c APIConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}
