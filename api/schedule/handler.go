// Package schedule exposes the planner over HTTP.
//
// Every route accepts POST with a JSON body and answers JSON:
//
//	POST /api/schedule   {session?, session_duration_minutes?, tasks} -> plan
//	POST /api/estimate   {tasks} -> {duration_minutes}
//	POST /api/conflicts  {tasks} -> {conflicts}
package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/kilianp07/mealprep/core/model"
	"github.com/kilianp07/mealprep/core/scheduler"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// Planner is the subset of planner.Planner used by the handlers.
type Planner interface {
	ScheduleWithSummary(tasks []model.Task, sessionMinutes int) (scheduler.Plan, scheduler.Summary, error)
	Conflicts(tasks []model.Task) []scheduler.Conflict
	Estimate(tasks []model.Task) (int, error)
}

// ScheduleResponse is returned by POST /api/schedule.
type ScheduleResponse struct {
	scheduler.Plan
	Conflicts []scheduler.Conflict `json:"conflicts"`
	Summary   scheduler.Summary    `json:"summary"`
}

// EstimateResponse is returned by POST /api/estimate.
type EstimateResponse struct {
	DurationMinutes int `json:"duration_minutes"`
}

// ConflictsResponse is returned by POST /api/conflicts.
type ConflictsResponse struct {
	Conflicts []scheduler.Conflict `json:"conflicts"`
}

// NewScheduleHandler plans the posted tasks. The session budget comes from
// the request, then from the planner configuration, then from the estimate.
func NewScheduleHandler(p Planner, maxTasks int) http.Handler {
	return post(func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode(w, r, maxTasks)
		if !ok {
			return
		}
		if err := req.CheckActive(); err != nil {
			writeError(w, err)
			return
		}
		plan, summary, err := p.ScheduleWithSummary(req.Tasks, req.Budget())
		if err != nil {
			writeError(w, err)
			return
		}
		resp := ScheduleResponse{
			Plan:      plan,
			Conflicts: nonNil(p.Conflicts(plan.Tasks)),
			Summary:   summary,
		}
		writeJSON(w, resp)
	})
}

// NewEstimateHandler returns the session length needed for the posted tasks.
func NewEstimateHandler(p Planner, maxTasks int) http.Handler {
	return post(func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode(w, r, maxTasks)
		if !ok {
			return
		}
		minutes, err := p.Estimate(req.Tasks)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, EstimateResponse{DurationMinutes: minutes})
	})
}

// NewConflictsHandler checks already scheduled tasks for overlaps.
func NewConflictsHandler(p Planner, maxTasks int) http.Handler {
	return post(func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode(w, r, maxTasks)
		if !ok {
			return
		}
		if err := model.ValidateTasks(req.Tasks); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, ConflictsResponse{Conflicts: nonNil(p.Conflicts(req.Tasks))})
	})
}

// Register mounts the planner routes on mux behind the bearer token check.
func Register(mux *http.ServeMux, p Planner, token string, maxTasks int) {
	mux.Handle("/api/schedule", RequireToken(token, NewScheduleHandler(p, maxTasks)))
	mux.Handle("/api/estimate", RequireToken(token, NewEstimateHandler(p, maxTasks)))
	mux.Handle("/api/conflicts", RequireToken(token, NewConflictsHandler(p, maxTasks)))
}

func post(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	})
}

func decode(w http.ResponseWriter, r *http.Request, maxTasks int) (scheduler.PlanFile, bool) {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	req, err := scheduler.DecodePlanFile(body, "json")
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return req, false
	}
	if maxTasks > 0 && len(req.Tasks) > maxTasks {
		http.Error(w, fmt.Sprintf("too many tasks: %d > %d", len(req.Tasks), maxTasks), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, model.ErrInvalidAppliance) || errors.Is(err, model.ErrInvalidTask) || errors.Is(err, model.ErrInvalidSession) {
		status = http.StatusBadRequest
	}
	if errors.Is(err, model.ErrSessionCompleted) {
		status = http.StatusConflict
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func nonNil(c []scheduler.Conflict) []scheduler.Conflict {
	if c == nil {
		return []scheduler.Conflict{}
	}
	return c
}
