package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/field-visits/internal/visit"
)

type assignFlags struct {
	title    string
	address  string
	date     string
	at       string
	duration int
	assignee string
	priority string
	notes    string
	tasks    []string
}

func newAssignCmd() *cobra.Command {
	var f assignFlags

	cmd := &cobra.Command{
		Use:   "assign <store>",
		Short: "Assign a planned visit to a store",
		Long: `Assign a planned visit to a store.

The address is filled from the store catalog when omitted.

Examples:
  fv assign "Día Malasaña" --date 2025-07-20 --time 17:00 --duration 60 --assignee "Ana Martínez" --priority low
  fv assign "Carrefour Alcalá" --date 2025-07-21 --duration 90 --assignee Luis --task "Precios" --task "Stock"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssign(strings.Join(args, " "), f)
		},
	}

	cmd.Flags().StringVar(&f.title, "title", "", "visit title (default: store name)")
	cmd.Flags().StringVar(&f.address, "address", "", "store address")
	cmd.Flags().StringVar(&f.date, "date", "", "scheduled date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&f.at, "time", "", "scheduled time HH:MM (default 10:00)")
	cmd.Flags().IntVar(&f.duration, "duration", 60, "planned duration in minutes")
	cmd.Flags().StringVar(&f.assignee, "assignee", "", "field rep (default: configured assignee)")
	cmd.Flags().StringVar(&f.priority, "priority", "", "priority: low, medium or high (default medium)")
	cmd.Flags().StringVarP(&f.notes, "notes", "n", "", "initial notes")
	cmd.Flags().StringArrayVar(&f.tasks, "task", nil, "checklist task (repeatable)")

	return cmd
}

func runAssign(store string, f assignFlags) error {
	if f.date == "" {
		return errors.New("--date is required")
	}
	assignee := f.assignee
	if assignee == "" {
		assignee = getAssignee()
	}

	c := newAPIClient()
	v, err := c.AssignVisit(visit.NewVisit{
		Title:                  f.title,
		Store:                  store,
		Address:                f.address,
		ScheduledDate:          f.date,
		ScheduledTime:          f.at,
		PlannedDurationMinutes: f.duration,
		Assignee:               assignee,
		Priority:               visit.Priority(strings.ToLower(f.priority)),
		Notes:                  f.notes,
		Tasks:                  f.tasks,
	})
	if err != nil {
		return fmt.Errorf("assigning visit: %w", err)
	}

	if isJSON() {
		return printJSON(v)
	}

	fmt.Println("Visit assigned.")
	printVisitSummary(v)
	return nil
}
