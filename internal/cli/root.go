package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/storefront-dev/storefront/internal/cli/commands"
	"github.com/storefront-dev/storefront/internal/cli/settings"
	"github.com/storefront-dev/storefront/internal/logger"
)

var version = "dev" // Will be set during build

// NewRootCmd builds the storefront command tree around e
func NewRootCmd(e *commands.Env) *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront - manage your shop account from the terminal",
		Long: `Storefront CLI - sign in to a storefront server and manage your account.

Sessions are kept per server: the token lives in the OS keychain and the
profile in ~/.config/storefront/config.json.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A broken settings file must not block commands like logout
			s, loadErr := settings.Load()
			if loadErr != nil {
				s = settings.Defaults()
			}
			if logLevel != "" {
				s.LogLevel = logLevel
			}
			e.Settings = s

			logger.InitWriter(os.Stderr, s.LogLevel, s.LogFormat)
			e.Logger = logger.GetLogger()
			if loadErr != nil {
				e.Logger.Warn().Err(loadErr).Msg("Failed to load settings, using defaults")
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(e.Out, "storefront version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewInitCmd(e))
	rootCmd.AddCommand(commands.NewSelectServerCmd(e))
	rootCmd.AddCommand(commands.NewLoginCmd(e))
	rootCmd.AddCommand(commands.NewLogoutCmd(e))
	rootCmd.AddCommand(commands.NewWhoamiCmd(e))
	rootCmd.AddCommand(commands.NewAddressesCmd(e))
	rootCmd.AddCommand(commands.NewWebCmd(e))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	if err := NewRootCmd(commands.DefaultEnv()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
