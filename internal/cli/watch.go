package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/field-visits/internal/client"
)

func newWatchCmd() *cobra.Command {
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "watch <id>",
		Short: "Follow the live timer of a visit",
		Long:  "Poll the elapsed active time of a visit until it is paused or finished, or until interrupted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return watchElapsed(ctx, newAPIClient(), args[0], every, os.Stdout)
		},
	}

	cmd.Flags().DurationVar(&every, "every", time.Second, "poll interval")

	return cmd
}

// watchElapsed prints the visit clock on one line until the timer stops.
func watchElapsed(ctx context.Context, c *client.Client, id string, every time.Duration, out io.Writer) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		el, err := c.Elapsed(id)
		if err != nil {
			return err
		}
		if !el.Active {
			_, err := fmt.Fprintf(out, "\r%s  not running\n", el.Clock)
			return err
		}
		if _, err := fmt.Fprintf(out, "\r%s", el.Clock); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			_, err := fmt.Fprintln(out)
			return err
		case <-ticker.C:
		}
	}
}
