package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show visit details",
		Long:  "Show full details for a visit, including its task checklist.",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	v, err := newAPIClient().GetVisit(args[0])
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(v)
	}

	printVisitSummary(v)
	fmt.Printf("\nTasks (%d):\n", len(v.Tasks))
	printTasks(v.Tasks)
	return nil
}
