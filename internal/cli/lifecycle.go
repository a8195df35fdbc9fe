package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/field-visits/internal/client"
)

type lifecycleStep struct {
	use   string
	short string
	done  string
	call  func(c *client.Client, id string) (*client.Visit, error)
}

var lifecycleSteps = []lifecycleStep{
	{"start", "Start a planned visit and its timer", "started", (*client.Client).Start},
	{"pause", "Pause the timer of a running visit", "paused", (*client.Client).Pause},
	{"resume", "Resume a paused visit", "resumed", (*client.Client).Resume},
	{"finish", "Complete a visit and record its actual duration", "finished", (*client.Client).Finish},
}

// newLifecycleCmds builds the start, pause, resume and finish commands.
func newLifecycleCmds() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(lifecycleSteps))
	for _, step := range lifecycleSteps {
		step := step
		cmds = append(cmds, &cobra.Command{
			Use:   step.use + " <id>",
			Short: step.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLifecycle(step, args[0])
			},
		})
	}
	return cmds
}

func runLifecycle(step lifecycleStep, id string) error {
	v, err := step.call(newAPIClient(), id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(v)
	}

	fmt.Printf("Visit %s %s.\n", v.ID, step.done)
	printVisitSummary(v)
	return nil
}
