package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a visit",
		Long:  "Remove a visit and stop its timer. Removing an unknown visit is not an error.",
		Args:  cobra.ExactArgs(1),
		RunE:  runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	id := args[0]
	if err := newAPIClient().RemoveVisit(id); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]any{
			"id":      id,
			"removed": true,
		})
	}

	fmt.Printf("Visit %s removed.\n", id)
	return nil
}
