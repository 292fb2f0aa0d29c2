package metrics

import "github.com/kilianp07/mealprep/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
}

// PrometheusEnabled reports whether a prometheus sink is configured, in which
// case the service exposes /metrics.
func (c Config) PrometheusEnabled() bool {
	for _, s := range c.Sinks {
		if s.Type == "prometheus" {
			return true
		}
	}
	return false
}
