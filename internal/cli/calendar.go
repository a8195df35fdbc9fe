package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/field-visits/internal/schedule"
)

func newCalendarCmd() *cobra.Command {
	var date, assignee string

	cmd := &cobra.Command{
		Use:   "calendar [day|week|month|agenda]",
		Short: "Show visits by day, week or month",
		Long: `Show scheduled visits for a period around a date.

Weeks run Sunday to Saturday. Without a view the agenda of all dated
visits is shown.

Examples:
  fv calendar week --date 2025-07-20
  fv calendar month --assignee "Ana Martínez"`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"day", "week", "month", "agenda"},
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := ""
			if len(args) == 1 {
				raw = args[0]
			}
			view, err := schedule.ParseView(raw)
			if err != nil {
				return err
			}
			return runCalendar(view, date, assignee)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "anchor date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "only visits of this assignee")

	return cmd
}

func runCalendar(view schedule.View, date, assignee string) error {
	p, err := newAPIClient().Calendar(view, date, assignee)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(p)
	}

	printPeriod(p)
	return nil
}
