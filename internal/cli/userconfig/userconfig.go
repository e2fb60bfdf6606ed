package userconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	configDirName  = "storefront"
	configFileName = "config.json"

	// ConfigDirEnv overrides the directory holding the user config
	ConfigDirEnv = "STOREFRONT_CONFIG_DIR"
)

// Profile is the locally remembered identity of a logged-in user
type Profile struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	LoggedInAt time.Time `json:"logged_in_at"`
}

// UserConfig represents the user's local configuration stored in ~/.config/storefront/config.json
type UserConfig struct {
	SelectedServer string `json:"selected_server"`

	// Profiles is keyed by server endpoint
	Profiles map[string]Profile `json:"profiles,omitempty"`
}

// GetConfigDir returns the directory holding the user's storefront files
func GetConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", configDirName), nil
}

// GetConfigPath returns the path to the user config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFileName), nil
}

// Load reads the user configuration file
func Load() (*UserConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	// If config doesn't exist, return empty config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &UserConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the user configuration to a file
func Save(cfg *UserConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}

	return nil
}

// SetSelectedServer updates the selected server endpoint and saves the config
func SetSelectedServer(endpoint string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	cfg.SelectedServer = endpoint
	return Save(cfg)
}

// GetSelectedServer returns the selected server endpoint, or empty string if not set
func GetSelectedServer() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}

	return cfg.SelectedServer, nil
}

// SaveProfile remembers who is logged in to endpoint
func SaveProfile(endpoint string, profile Profile) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]Profile)
	}
	cfg.Profiles[endpoint] = profile
	return Save(cfg)
}

// GetProfile returns the profile stored for endpoint
func GetProfile(endpoint string) (Profile, bool, error) {
	cfg, err := Load()
	if err != nil {
		return Profile{}, false, err
	}

	profile, ok := cfg.Profiles[endpoint]
	return profile, ok, nil
}

// DeleteProfile forgets the profile stored for endpoint. Missing profiles are ignored.
func DeleteProfile(endpoint string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	if _, ok := cfg.Profiles[endpoint]; !ok {
		return nil
	}

	delete(cfg.Profiles, endpoint)
	return Save(cfg)
}
