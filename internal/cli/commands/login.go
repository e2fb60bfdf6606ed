package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/storefront-dev/storefront/internal/cli/userconfig"
)

// NewLoginCmd creates the login command
func NewLoginCmd(e *Env) *cobra.Command {
	var email, password, serverAlias string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to a storefront server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), e, serverAlias, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set STOREFRONT_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set STOREFRONT_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses the selected server if not specified)")

	return cmd
}

func runLogin(ctx context.Context, e *Env, serverAlias, email, password string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("STOREFRONT_EMAIL")
	}
	if password == "" {
		password = os.Getenv("STOREFRONT_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or STOREFRONT_EMAIL env var)")
	}

	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return err
	}

	// Prompt for password if not provided via flag or env var
	if password == "" {
		stdin := int(os.Stdin.Fd())
		if !term.IsTerminal(stdin) {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or STOREFRONT_PASSWORD env var)")
		}
		e.printf("Password: ")
		bytePassword, err := term.ReadPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(bytePassword)
		e.println() // New line after password input
	}

	e.printf("Logging in to %s...\n", server.Label())

	res, err := e.client(server, "").Login(ctx, email, password)
	if err != nil {
		return err
	}

	profile := userconfig.Profile{
		UserID:     res.User.ID,
		Email:      res.User.Email,
		Name:       res.User.Name,
		LoggedInAt: time.Now().UTC(),
	}
	if err := e.session(server).Begin(res.Token, profile); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	e.Logger.Info().Str("server", server.Alias).Str("user_id", res.User.ID).Msg("Logged in")

	e.println("✓ Login successful!")
	e.printf("  User: %s (%s)\n", res.User.Name, res.User.Email)

	return nil
}
