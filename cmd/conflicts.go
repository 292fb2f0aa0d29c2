package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/mealprep/core/model"
	"github.com/kilianp07/mealprep/core/scheduler"
	"github.com/kilianp07/mealprep/pkg/export"
)

// ErrConflicts is returned when a checked plan double-books an appliance.
var ErrConflicts = errors.New("conflicts found")

func newConflictsCmd(root *rootOptions) *cobra.Command {
	var (
		file     string
		schedule bool
	)
	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Report tasks overlapping on the same appliance",
		Long: "Checks the start times of a plan file. With --schedule the tasks are " +
			"scheduled first and the resulting plan is checked instead.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, _, err := root.planner()
			if err != nil {
				return err
			}
			pf, err := scheduler.LoadPlanFile(file)
			if err != nil {
				return fmt.Errorf("load plan: %w", err)
			}
			tasks := pf.Tasks
			if schedule {
				plan, err := p.Schedule(tasks, pf.Budget())
				if err != nil {
					return err
				}
				tasks = plan.Tasks
			} else if err := model.ValidateTasks(tasks); err != nil {
				return err
			}
			conflicts := p.Conflicts(tasks)
			out := cmd.OutOrStdout()
			for _, c := range conflicts {
				if _, err := fmt.Fprintf(out, "%s: %q %s-%s overlaps %q %s-%s by %d min\n",
					c.A.Appliance,
					c.A.Name, export.Clock(c.A.Start()), export.Clock(c.A.End()),
					c.B.Name, export.Clock(c.B.Start()), export.Clock(c.B.End()),
					c.Overlap()); err != nil {
					return err
				}
			}
			if len(conflicts) > 0 {
				return fmt.Errorf("%w: %d", ErrConflicts, len(conflicts))
			}
			_, err = fmt.Fprintln(out, "no conflicts")
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "plan file (yaml or json)")
	cmd.Flags().BoolVar(&schedule, "schedule", false, "schedule the tasks before checking")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
