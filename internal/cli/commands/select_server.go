package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storefront-dev/storefront/internal/cli/config"
	"github.com/storefront-dev/storefront/internal/cli/serverselect"
	"github.com/storefront-dev/storefront/internal/cli/userconfig"
)

// NewSelectServerCmd creates the select-server command
func NewSelectServerCmd(e *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select-server [endpoint-or-alias]",
		Short: "Select the server to use for commands",
		Long: `Select the server to use for commands.

If no param is provided, an interactive prompt will be shown.

Examples:
  $ storefront select-server                                  # Interactive selection
  $ storefront select-server https://shop.example.com/graphql # Select by endpoint
  $ storefront select-server production                       # Select by alias`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var endpointOrAlias string
			if len(args) > 0 {
				endpointOrAlias = args[0]
			}
			return runSelectServer(e, endpointOrAlias)
		},
	}

	return cmd
}

func runSelectServer(e *Env, endpointOrAlias string) error {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return fmt.Errorf("failed to load config: %w\nRun 'storefront init' to create a configuration file", err)
	}

	var server *config.Server

	if endpointOrAlias != "" {
		server, err = serverselect.GetServerByEndpointOrAlias(cfg, endpointOrAlias)
	} else {
		server, err = serverselect.PromptServerSelection(cfg)
	}
	if err != nil {
		return err
	}

	if err := userconfig.SetSelectedServer(server.Endpoint); err != nil {
		return fmt.Errorf("failed to save selected server: %w", err)
	}

	e.printf("Selected server: %s\n", server.Label())
	return nil
}
