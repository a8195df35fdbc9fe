package cli

import (
	"github.com/spf13/cobra"
)

func newSummaryCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the dashboard counters and today's visits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newAPIClient().Summary(date)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(s)
			}
			return printDashboard(s)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "dashboard date YYYY-MM-DD (default: today)")

	return cmd
}
