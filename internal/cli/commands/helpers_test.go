package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/storefront-dev/storefront/internal/cli/auth"
	"github.com/storefront-dev/storefront/internal/cli/config"
	"github.com/storefront-dev/storefront/internal/cli/settings"
	"github.com/storefront-dev/storefront/internal/cli/userconfig"
)

// mockTokenStore is a simple in-memory token store for testing
type mockTokenStore struct {
	tokens map[string]string
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{
		tokens: make(map[string]string),
	}
}

func (m *mockTokenStore) SaveToken(endpoint, token string) error {
	m.tokens[endpoint] = token
	return nil
}

func (m *mockTokenStore) LoadToken(endpoint string) (string, error) {
	token, exists := m.tokens[endpoint]
	if !exists {
		return "", auth.ErrNotAuthenticated
	}
	return token, nil
}

func (m *mockTokenStore) DeleteToken(endpoint string) error {
	delete(m.tokens, endpoint)
	return nil
}

// mockProfiles keeps profiles in memory
type mockProfiles struct {
	profiles map[string]userconfig.Profile
}

func newMockProfiles() *mockProfiles {
	return &mockProfiles{profiles: make(map[string]userconfig.Profile)}
}

func (m *mockProfiles) SaveProfile(endpoint string, profile userconfig.Profile) error {
	m.profiles[endpoint] = profile
	return nil
}

func (m *mockProfiles) GetProfile(endpoint string) (userconfig.Profile, bool, error) {
	p, ok := m.profiles[endpoint]
	return p, ok, nil
}

func (m *mockProfiles) DeleteProfile(endpoint string) error {
	delete(m.profiles, endpoint)
	return nil
}

type testEnv struct {
	*Env
	out      *bytes.Buffer
	logs     *bytes.Buffer
	tokens   *mockTokenStore
	profiles *mockProfiles
	opened   []string
}

// newTestEnv returns an Env writing to buffers, with in-memory session storage
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	te := &testEnv{
		out:      &bytes.Buffer{},
		logs:     &bytes.Buffer{},
		tokens:   newMockTokenStore(),
		profiles: newMockProfiles(),
	}
	te.Env = &Env{
		Out:      te.out,
		Tokens:   te.tokens,
		Profiles: te.profiles,
		Settings: settings.Defaults(),
		Logger:   zerolog.New(te.logs),
		OpenURL: func(url string) error {
			te.opened = append(te.opened, url)
			return nil
		},
	}
	return te
}

// setupTestEnvironment creates a temporary directory holding storefront.json
// and makes it the working directory. The user config goes to its own temp dir.
func setupTestEnvironment(t *testing.T, servers []config.Server) string {
	t.Helper()

	tempDir := t.TempDir()

	cfgData, err := json.MarshalIndent(config.Config{Servers: servers}, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}

	if err := os.WriteFile(filepath.Join(tempDir, config.ConfigFileName), cfgData, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Chdir(tempDir)
	t.Setenv(userconfig.ConfigDirEnv, t.TempDir())

	return tempDir
}
