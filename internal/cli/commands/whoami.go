package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(e *Env) *cobra.Command {
	var serverAlias string
	var remote bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the local session for the selected server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(cmd.Context(), e, serverAlias, remote)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses the selected server if not specified)")
	cmd.Flags().BoolVar(&remote, "remote", false, "Also ask the server who the session belongs to")

	return cmd
}

func runWhoami(ctx context.Context, e *Env, serverAlias string, remote bool) error {
	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return err
	}

	state, err := e.session(server).State()
	if err != nil {
		return err
	}

	e.printf("Server: %s\n", server.Label())
	if !state.Authenticated() {
		e.println("Status: logged out")
		return nil
	}

	e.println("Status: authenticated")
	e.printf("  User: %s (%s)\n", state.Profile.Name, state.Profile.Email)
	if !state.Profile.LoggedInAt.IsZero() {
		e.printf("  Since: %s\n", state.Profile.LoggedInAt.Local().Format("2006-01-02 15:04"))
	}

	if !remote {
		return nil
	}

	api, _, err := e.authedClient(server)
	if err != nil {
		return err
	}
	user, err := api.Me(ctx)
	if err != nil {
		return err
	}
	e.printf("  Server confirms: %s (%s)\n", user.Name, user.ID)

	return nil
}
