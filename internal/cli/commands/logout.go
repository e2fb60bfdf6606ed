package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/storefront-dev/storefront/internal/cli/logout"
	"github.com/storefront-dev/storefront/internal/cli/navigate"
	"github.com/storefront-dev/storefront/internal/cli/session"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd(e *Env) *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out of a storefront server",
		Long: `Sign out of a storefront server.

The server is asked to end the session first. Whatever it answers, the local
session is then removed and the login page is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.Context(), e, serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses the selected server if not specified)")

	return cmd
}

func runLogout(ctx context.Context, e *Env, serverAlias string) error {
	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return err
	}

	store := e.session(server)

	// Logging out without a stored token still asks the server, anonymously
	token, err := store.Token()
	if err != nil && !errors.Is(err, session.ErrNotAuthenticated) {
		e.Logger.Warn().Err(err).Msg("Failed to read session token")
	}

	var target navigate.Navigator = navigate.NewPrinter(e.Out)
	if e.Settings.OpenBrowser && server.WebURL != "" {
		target = navigate.Chain{navigate.NewBrowserWith(server.WebURL, e.OpenURL), target}
	}

	// The confirmation comes first, whichever way the login page is reached
	nav := navigate.Func(func(ctx context.Context, path string) error {
		e.printf("✓ Logged out of %s.\n", server.Alias)
		return target.Navigate(ctx, path)
	})

	e.printf("Logging out of %s...\n", server.Label())

	flow := logout.New(e.client(server, token), store, nav, e.Logger.With().Str("server", server.Alias).Logger())
	flow.SetTimeout(e.Settings.LogoutTimeout)
	flow.Run(ctx)

	return nil
}
