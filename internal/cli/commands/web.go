package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWebCmd creates the web command
func NewWebCmd(e *Env) *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "web [path]",
		Short: "Open the storefront web app in browser",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) > 0 {
				path = args[0]
			}
			return runWeb(e, serverAlias, path)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses the selected server if not specified)")

	return cmd
}

func runWeb(e *Env, serverAlias, path string) error {
	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return err
	}

	pageURL := server.PageURL(path)
	if pageURL == "" {
		return fmt.Errorf("no web_url configured for %s. Add it to storefront.json", server.Alias)
	}

	e.printf("Opening %s...\n", pageURL)

	if err := e.OpenURL(pageURL); err != nil {
		return fmt.Errorf("failed to open browser: %w\nPlease visit: %s", err, pageURL)
	}

	return nil
}
