// Package cli defines the cobra command tree for field-visits.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/field-visits/internal/client"
)

var (
	flagFormat string
	flagServer string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fv",
		Short:         "Plan and run retail store visits",
		Long:          "A tool to assign, run and review field visits to retail stores. Run the API with 'fv serve' and drive it from the CLI.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagServer, "server", "", "API server URL (default: $FV_SERVER_URL, config, or http://localhost:8080)")

	root.AddCommand(
		newServeCmd(),
		newAssignCmd(),
		newListCmd(),
		newShowCmd(),
		newRemoveCmd(),
		newTaskCmd(),
		newNotesCmd(),
		newPhotoCmd(),
		newRescheduleCmd(),
		newWatchCmd(),
		newCalendarCmd(),
		newSummaryCmd(),
		newCatalogCmd(),
		newConfigCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)
	root.AddCommand(newLifecycleCmds()...)

	return root
}

// newAPIClient creates an HTTP client for the field-visits API.
func newAPIClient() *client.Client {
	return client.New(serverURL(), client.WithRateLimit(10, 5))
}

// serverURL prefers the --server flag over env and config.
func serverURL() string {
	if flagServer != "" {
		return flagServer
	}
	return getServerURL()
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}
