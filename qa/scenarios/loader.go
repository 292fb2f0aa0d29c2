// Package scenarios replays kitchen sessions described in YAML through the
// planner and checks the resulting plan and metrics.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/mealprep/core/model"
)

// Expected holds the outcome a scenario must produce.
type Expected struct {
	SessionMinutes int `yaml:"session_duration_minutes"`
	// Starts maps task names to their expected start minute.
	Starts    map[string]int `yaml:"starts"`
	Overflows []string       `yaml:"overflows,omitempty"`
	Conflicts int            `yaml:"conflicts"`
	Estimate  int            `yaml:"estimate_minutes"`
	Makespan  int            `yaml:"makespan_minutes"`
}

// Scenario is one recorded session. A zero SessionMinutes lets the planner
// size the session.
type Scenario struct {
	Name           string       `yaml:"name"`
	Description    string       `yaml:"description,omitempty"`
	SessionMinutes int          `yaml:"session_duration_minutes,omitempty"`
	Tasks          []model.Task `yaml:"tasks"`
	Expected       Expected     `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
