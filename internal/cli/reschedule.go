package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/field-visits/internal/visit"
)

func newRescheduleCmd() *cobra.Command {
	var sch visit.Schedule
	var priority string

	cmd := &cobra.Command{
		Use:   "reschedule <id>",
		Short: "Change the schedule of a planned visit",
		Long: `Change the date, time, duration, assignee or priority of a visit
that has not started yet. Omitted flags keep their current value.

Example:
  fv reschedule 3 --date 2025-07-22 --time 09:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sch.Priority = visit.Priority(strings.ToLower(priority))
			if sch == (visit.Schedule{}) {
				return errors.New("nothing to change: pass --date, --time, --duration, --assignee or --priority")
			}
			v, err := newAPIClient().Reschedule(args[0], sch)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(v)
			}
			fmt.Println("Visit rescheduled.")
			printVisitSummary(v)
			return nil
		},
	}

	cmd.Flags().StringVar(&sch.ScheduledDate, "date", "", "new date YYYY-MM-DD")
	cmd.Flags().StringVar(&sch.ScheduledTime, "time", "", "new time HH:MM")
	cmd.Flags().IntVar(&sch.PlannedDurationMinutes, "duration", 0, "new planned duration in minutes")
	cmd.Flags().StringVar(&sch.Assignee, "assignee", "", "new assignee")
	cmd.Flags().StringVar(&priority, "priority", "", "new priority")

	return cmd
}
