// Package export renders plans for files and terminals.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/kilianp07/mealprep/core/scheduler"
)

// Formats lists the values accepted by Write.
var Formats = []string{"json", "csv", "table"}

// Write renders plan in the named format.
func Write(w io.Writer, format string, plan scheduler.Plan) error {
	switch strings.ToLower(format) {
	case "json":
		return WriteJSON(w, plan)
	case "csv":
		return WriteCSV(w, plan)
	case "table", "":
		return WriteTable(w, plan)
	default:
		return fmt.Errorf("unknown output format %q (want one of %v)", format, Formats)
	}
}

// WriteJSON writes the plan to w in JSON format.
func WriteJSON(w io.Writer, plan scheduler.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

// WriteCSV writes one row per task, in plan order.
func WriteCSV(w io.Writer, plan scheduler.Plan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"task_id", "task_name", "appliance", "order_priority", "start_time", "end_time", "duration_minutes", "can_parallel"}); err != nil {
		return err
	}
	for _, t := range plan.Tasks {
		rec := []string{
			t.ID,
			t.Name,
			string(t.Appliance),
			strconv.Itoa(t.OrderPriority),
			strconv.Itoa(t.Start()),
			strconv.Itoa(t.End()),
			strconv.Itoa(t.DurationMinutes),
			strconv.FormatBool(t.CanParallel),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable prints the plan as aligned appliance lanes followed by any
// overflow warnings.
func WriteTable(w io.Writer, plan scheduler.Plan) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "APPLIANCE\tSTART\tEND\tTASK\n")
	for _, lane := range scheduler.Lanes(plan.Tasks) {
		for _, t := range lane.Tasks {
			name := t.Name
			if scheduler.IsParallel(t) {
				name += " (parallel)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", lane.Appliance, Clock(t.Start()), Clock(t.End()), name)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "session %s, makespan %s\n", Clock(plan.SessionMinutes), Clock(plan.Makespan())); err != nil {
		return err
	}
	for _, o := range plan.Overflows {
		if _, err := fmt.Fprintf(w, "warning: %s\n", o); err != nil {
			return err
		}
	}
	return nil
}

// Clock formats a minute offset as h:mm.
func Clock(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}
