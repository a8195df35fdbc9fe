package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/field-visits/internal/client"
	"github.com/evcraddock/field-visits/internal/visit"
)

func newListCmd() *cobra.Command {
	var opts struct {
		status   string
		assignee string
		query    string
		mine     bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visits",
		Long:  "List visits in agenda order, optionally filtered by status, assignee or a search term.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			assignee := opts.assignee
			if opts.mine {
				assignee = getAssignee()
			}
			return runList(client.ListOptions{
				Status:   visit.Status(opts.status),
				Assignee: assignee,
				Query:    opts.query,
			})
		},
	}

	cmd.Flags().StringVar(&opts.status, "status", "", "filter by status (planned|in-progress|completed)")
	cmd.Flags().StringVar(&opts.assignee, "assignee", "", "filter by assignee")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "search title or address")
	cmd.Flags().BoolVar(&opts.mine, "mine", false, "only visits of the configured assignee")

	return cmd
}

func runList(opts client.ListOptions) error {
	visits, err := newAPIClient().ListVisits(opts)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(visits)
	}

	return printVisitTable(visits)
}
