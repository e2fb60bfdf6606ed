package userconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv(ConfigDirEnv, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.SelectedServer)
	assert.Empty(t, cfg.Profiles)
}

func TestSelectedServer(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)

	require.NoError(t, SetSelectedServer("http://localhost:8080/graphql"))

	selected, err := GetSelectedServer()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/graphql", selected)

	info, err := os.Stat(filepath.Join(dir, configFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestProfiles(t *testing.T) {
	t.Setenv(ConfigDirEnv, t.TempDir())

	endpoint := "http://localhost:8080/graphql"
	profile := Profile{
		UserID:     "01HZX",
		Email:      "ada@example.com",
		Name:       "Ada",
		LoggedInAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	require.NoError(t, SaveProfile(endpoint, profile))
	require.NoError(t, SetSelectedServer(endpoint))

	got, ok, err := GetProfile(endpoint)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, profile, got)

	require.NoError(t, DeleteProfile(endpoint))
	_, ok, err = GetProfile(endpoint)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting twice is fine and keeps the rest of the config
	require.NoError(t, DeleteProfile(endpoint))
	selected, err := GetSelectedServer()
	require.NoError(t, err)
	assert.Equal(t, endpoint, selected)
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("{"), 0600))

	_, err := Load()
	assert.ErrorContains(t, err, "failed to parse user config file")
}
