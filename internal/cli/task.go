package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTaskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "task <visit-id> <task-id>",
		Short: "Toggle a checklist task",
		Long: `Toggle the completion of one checklist task of a started visit.

Task ids are shown by 'fv show'.

Example:
  fv task 2 3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newAPIClient().ToggleTask(args[0], args[1])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(v)
			}
			fmt.Printf("Progress: %s\n", formatProgress(v.ProgressPercent))
			printTasks(v.Tasks)
			return nil
		},
	}
}

func newNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notes <id> <text>",
		Short: "Replace the notes of a visit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newAPIClient().EditNotes(args[0], args[1])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(v)
			}
			fmt.Printf("Notes updated for visit %s.\n", v.ID)
			return nil
		},
	}
}

func newPhotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "photo <id> <ref>...",
		Short: "Attach photo references to a visit",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newAPIClient().AddPhotos(args[0], args[1:]...)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(v)
			}
			fmt.Printf("Visit %s now has %d photos.\n", v.ID, len(v.Photos))
			return nil
		},
	}
}
