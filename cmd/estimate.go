package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/mealprep/core/scheduler"
)

func newEstimateCmd(root *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Print the session length needed for a plan file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, _, err := root.planner()
			if err != nil {
				return err
			}
			pf, err := scheduler.LoadPlanFile(file)
			if err != nil {
				return fmt.Errorf("load plan: %w", err)
			}
			minutes, err := p.Estimate(pf.Tasks)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d\n", minutes)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "plan file (yaml or json)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
