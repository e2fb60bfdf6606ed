package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/storefront-dev/storefront/internal/cli/config"
)

// NewInitCmd creates the init command
func NewInitCmd(e *Env) *cobra.Command {
	var alias, webURL string

	cmd := &cobra.Command{
		Use:   "init <graphql-endpoint>",
		Short: "Add a storefront server to ./storefront.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(e, args[0], alias, webURL)
		},
	}

	cmd.Flags().StringVar(&alias, "alias", "", "Server alias (defaults to production, then server-N)")
	cmd.Flags().StringVar(&webURL, "web-url", "", "Web app base URL, used to open pages in the browser")

	return cmd
}

func runInit(e *Env, endpoint, alias, webURL string) error {
	server := config.Server{Alias: alias, Endpoint: endpoint, WebURL: webURL}
	if err := server.Validate(); err != nil {
		return err
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(currentDir, config.ConfigFileName)

	var cfg *config.Config
	isNewConfig := false

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		e.printf("Found existing %s\n", config.ConfigFileName)
	} else {
		cfg = &config.Config{
			Servers: []config.Server{},
		}
		isNewConfig = true
	}

	if _, err := cfg.GetServerByEndpoint(endpoint); err == nil {
		e.printf("Server %s already exists in %s\n", endpoint, config.ConfigFileName)
		return nil
	}

	if server.Alias == "" {
		if len(cfg.Servers) == 0 {
			server.Alias = "production"
		} else {
			server.Alias = fmt.Sprintf("server-%d", len(cfg.Servers)+1)
		}
	}
	if _, err := cfg.GetServerByAlias(server.Alias); err == nil {
		return fmt.Errorf("alias '%s' is already used in %s", server.Alias, config.ConfigFileName)
	}

	cfg.Servers = append(cfg.Servers, server)

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	if isNewConfig {
		e.printf("✓ Created ./%s with server %s\n", config.ConfigFileName, server.Label())
	} else {
		e.printf("✓ Added server %s to ./%s\n", server.Label(), config.ConfigFileName)
	}

	e.println("\nNext steps:")
	e.println("  Run 'storefront login' to authenticate")

	return nil
}
