package metrics

import (
	"fmt"

	"github.com/kilianp07/mealprep/core/factory"
)

var sinkRegistry = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink adds a metrics sink factory identified by name.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewMetricsSink creates a MetricsSink from the provided configuration.
func NewMetricsSink(cfgs []factory.ModuleConfig) (MetricsSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]MetricsSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}

// SinkTypes returns the names of all registered sink factories.
func SinkTypes() []string { return sinkRegistry.Types() }

// ValidateSinks checks that every configured sink type is registered.
func ValidateSinks(cfgs []factory.ModuleConfig) error {
	for _, c := range cfgs {
		if !sinkRegistry.Has(c.Type) {
			return fmt.Errorf("%w %q (known: %v)", factory.ErrUnknownType, c.Type, SinkTypes())
		}
	}
	return nil
}
