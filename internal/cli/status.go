package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the connection to the server",
		Long:  "Tests the connection to the API server and reports its visit counters.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	c := newAPIClient()

	fmt.Printf("Server:  %s\n", serverURL())

	if err := c.Health(); err != nil {
		fmt.Printf("Status:  ✗ cannot reach server (%v)\n", err)
		fmt.Println("\nRun 'fv serve' to start one, or set FV_SERVER_URL.")
		return nil
	}

	s, err := c.Summary("")
	if err != nil {
		fmt.Printf("Status:  ✗ unexpected response (%v)\n", err)
		return nil
	}
	fmt.Println("Status:  ✓ connected")
	fmt.Printf("Visits:  %d total, %d in progress, %d completed\n", s.Total, s.InProgress, s.Completed)
	return nil
}
