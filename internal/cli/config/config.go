package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const ConfigFileName = "storefront.json"

// Server represents a storefront API server configuration
type Server struct {
	Alias    string `json:"alias"`
	Endpoint string `json:"endpoint"`          // GraphQL endpoint, e.g. https://shop.example.com/graphql
	WebURL   string `json:"web_url,omitempty"` // Web app base URL used for browser navigation
}

// Validate checks that the endpoint is an absolute http(s) URL
func (s *Server) Validate() error {
	if s.Endpoint == "" {
		return fmt.Errorf("server endpoint is empty. Please edit %s and add a valid endpoint", ConfigFileName)
	}

	u, err := url.Parse(s.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", s.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", s.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", s.Endpoint)
	}

	return nil
}

// PageURL joins the web app base URL and an in-app path.
// Returns an empty string when no web URL is configured.
func (s *Server) PageURL(path string) string {
	if s.WebURL == "" {
		return ""
	}
	return strings.TrimRight(s.WebURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Label is the human readable name of the server
func (s *Server) Label() string {
	return fmt.Sprintf("%s (%s)", s.Alias, s.Endpoint)
}

// Config represents the CLI configuration file
type Config struct {
	Servers []Server `json:"servers"`
}

// DefaultConfig returns a default configuration with example servers
func DefaultConfig() *Config {
	return &Config{
		Servers: []Server{
			{
				Alias:    "e.g. production",
				Endpoint: "",
			},
		},
	}
}

// FindConfigFile searches for storefront.json in current directory and parent directories
func FindConfigFile() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	// Search upwards until we find storefront.json or reach root
	dir := currentDir
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s not found in %s or any parent directory", ConfigFileName, currentDir)
}

// Load reads the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadFromCurrentDir loads config from current directory or parent directories
func LoadFromCurrentDir() (*Config, error) {
	configPath, err := FindConfigFile()
	if err != nil {
		return nil, err
	}

	return Load(configPath)
}

// Save writes the configuration to a file
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetServerByAlias returns a server by its alias
func (c *Config) GetServerByAlias(alias string) (*Server, error) {
	for i := range c.Servers {
		if c.Servers[i].Alias == alias {
			return &c.Servers[i], nil
		}
	}
	return nil, fmt.Errorf("server with alias '%s' not found", alias)
}

// GetServerByEndpoint returns a server by its endpoint
func (c *Config) GetServerByEndpoint(endpoint string) (*Server, error) {
	for i := range c.Servers {
		if c.Servers[i].Endpoint == endpoint {
			return &c.Servers[i], nil
		}
	}
	return nil, fmt.Errorf("server with endpoint '%s' not found in project config", endpoint)
}

// GetDefaultServer returns the first server in the list
func (c *Config) GetDefaultServer() (*Server, error) {
	if len(c.Servers) == 0 {
		return nil, fmt.Errorf("no servers configured in %s", ConfigFileName)
	}
	return &c.Servers[0], nil
}
