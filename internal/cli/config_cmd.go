package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change CLI settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective CLI settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigShow()
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Persist a CLI setting",
			Long: `Persist a CLI setting to ~/.config/fv/config.yaml.

Keys: server_url, assignee

Examples:
  fv config set server_url http://field-ops:8080
  fv config set assignee "Ana Martínez"`,
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigSet(args[0], args[1])
			},
		},
	)

	return cmd
}

func runConfigShow() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	effective := CLIConfig{ServerURL: serverURL(), Assignee: getAssignee()}

	if isJSON() {
		return printJSON(map[string]string{
			"path":       path,
			"server_url": effective.ServerURL,
			"assignee":   effective.Assignee,
		})
	}

	fmt.Printf("Config:   %s\n", path)
	fmt.Printf("Server:   %s\n", effective.ServerURL)
	assignee := effective.Assignee
	if assignee == "" {
		assignee = "(not set)"
	}
	fmt.Printf("Assignee: %s\n", assignee)
	return nil
}

func runConfigSet(key, value string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.set(key, value); err != nil {
		return err
	}
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Printf("%s updated.\n", key)
	return nil
}
