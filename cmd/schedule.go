package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/mealprep/core/scheduler"
	"github.com/kilianp07/mealprep/infra/mqtt"
	"github.com/kilianp07/mealprep/pkg/export"
)

type scheduleOptions struct {
	file    string
	session int
	format  string
	publish bool
}

func newScheduleCmd(root *rootOptions) *cobra.Command {
	opts := &scheduleOptions{}
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Assign start times to the tasks of a plan file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, cfg, err := root.planner()
			if err != nil {
				return err
			}
			pf, err := scheduler.LoadPlanFile(opts.file)
			if err != nil {
				return fmt.Errorf("load plan: %w", err)
			}
			if err := pf.CheckActive(); err != nil {
				return err
			}
			budget := pf.Budget()
			if opts.session != 0 {
				budget = opts.session
			}
			plan, err := p.Schedule(pf.Tasks, budget)
			if err != nil {
				return err
			}
			if err := export.Write(cmd.OutOrStdout(), opts.format, plan); err != nil {
				return err
			}
			if !opts.publish {
				return nil
			}
			if !cfg.MQTT.Enabled() {
				return fmt.Errorf("--publish requires mqtt.broker in the configuration")
			}
			pub, err := mqtt.NewPublisher(cfg.MQTT, nil)
			if err != nil {
				return fmt.Errorf("mqtt publisher: %w", err)
			}
			defer pub.Disconnect()
			return pub.PublishPlan(plan)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "plan file (yaml or json)")
	cmd.Flags().IntVarP(&opts.session, "session", "s", 0, "session duration in minutes, overrides the plan file")
	cmd.Flags().StringVarP(&opts.format, "format", "o", "table", "output format: json, csv or table")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "publish the plan to the configured MQTT broker")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
