package settings

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/storefront-dev/storefront/internal/cli/userconfig"
)

// Settings holds user preferences for the CLI.
// Read from settings.yaml in the user config directory, overridable with
// STOREFRONT_* environment variables.
type Settings struct {
	LogLevel      string        `mapstructure:"log_level"`
	LogFormat     string        `mapstructure:"log_format"`     // console or json
	LogoutTimeout time.Duration `mapstructure:"logout_timeout"` // bound on the remote logout call
	OpenBrowser   bool          `mapstructure:"open_browser"`   // open the web login page after logout
}

// Defaults returns the default preferences
func Defaults() *Settings {
	return &Settings{
		LogLevel:      "warn",
		LogFormat:     "console",
		LogoutTimeout: 10 * time.Second,
		OpenBrowser:   false,
	}
}

// Load reads preferences from the user config directory and the environment
func Load() (*Settings, error) {
	dir, err := userconfig.GetConfigDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("settings")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	defaults := Defaults()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("logout_timeout", defaults.LogoutTimeout)
	v.SetDefault("open_browser", defaults.OpenBrowser)

	v.SetEnvPrefix("STOREFRONT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading settings file: %w", err)
		}
		// Settings file not found is OK, use defaults
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("error parsing settings: %w", err)
	}

	return s, nil
}
