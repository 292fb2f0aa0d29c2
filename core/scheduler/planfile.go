package scheduler

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/mealprep/core/model"
)

// PlanFile is the on-disk description of a cooking session and its tasks.
type PlanFile struct {
	Session *model.Session `json:"session,omitempty" yaml:"session,omitempty"`
	// SessionDurationMinutes is used when no session is given.
	SessionDurationMinutes int          `json:"session_duration_minutes,omitempty" yaml:"session_duration_minutes,omitempty"`
	Tasks                  []model.Task `json:"tasks" yaml:"tasks"`
}

// Budget returns the session duration requested by the file, or 0 when the
// file leaves it open.
func (p PlanFile) Budget() int {
	if p.Session != nil && p.Session.DurationMinutes > 0 {
		return p.Session.DurationMinutes
	}
	return p.SessionDurationMinutes
}

// CheckActive rejects files whose session is already completed.
func (p PlanFile) CheckActive() error {
	if p.Session != nil && !p.Session.Active() {
		return fmt.Errorf("session %q: %w", p.Session.ID, model.ErrSessionCompleted)
	}
	return nil
}

// LoadPlanFile loads a PlanFile from a JSON or YAML file.
func LoadPlanFile(path string) (PlanFile, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var format string
	switch ext {
	case ".yaml", ".yml":
		format = "yaml"
	case ".json":
		format = "json"
	default:
		return PlanFile{}, fmt.Errorf("unsupported plan format: %s", ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return PlanFile{}, err
	}
	defer func() { _ = f.Close() }()
	return DecodePlanFile(f, format)
}

// DecodePlanFile reads a PlanFile from r. Tasks without an ID get a random
// one and inherit the session ID when they have none.
func DecodePlanFile(r io.Reader, format string) (PlanFile, error) {
	var pf PlanFile
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&pf); err != nil && err != io.EOF {
			return pf, err
		}
	case "json":
		dec := json.NewDecoder(r)
		if err := dec.Decode(&pf); err != nil {
			return pf, err
		}
	default:
		return pf, fmt.Errorf("unsupported format: %s", format)
	}
	if pf.Session != nil {
		if err := pf.Session.Validate(); err != nil {
			return pf, err
		}
	}
	pf.normalize()
	return pf, nil
}

func (p *PlanFile) normalize() {
	sessionID := ""
	if p.Session != nil {
		sessionID = p.Session.ID
	}
	for i := range p.Tasks {
		if p.Tasks[i].ID == "" {
			p.Tasks[i].ID = uuid.NewString()
		}
		if p.Tasks[i].SessionID == "" {
			p.Tasks[i].SessionID = sessionID
		}
	}
}
