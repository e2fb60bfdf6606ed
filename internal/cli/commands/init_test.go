package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-dev/storefront/internal/cli/config"
)

func TestInitCommand_NewConfig(t *testing.T) {
	tempDir := t.TempDir()
	t.Chdir(tempDir)
	te := newTestEnv(t)

	err := runInit(te.Env, "https://api.shop.example.com/graphql", "", "https://shop.example.com")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(tempDir, config.ConfigFileName))
	require.NoError(t, err)
	require.Len(t, cfg.Servers, 1)

	assert.Equal(t, "production", cfg.Servers[0].Alias)
	assert.Equal(t, "https://api.shop.example.com/graphql", cfg.Servers[0].Endpoint)
	assert.Equal(t, "https://shop.example.com", cfg.Servers[0].WebURL)
	assert.Contains(t, te.out.String(), "Created ./storefront.json")
}

func TestInitCommand_AddsSecondServer(t *testing.T) {
	setupTestEnvironment(t, []config.Server{
		{Alias: "production", Endpoint: "https://api.shop.example.com/graphql"},
	})
	te := newTestEnv(t)

	require.NoError(t, runInit(te.Env, "http://localhost:8080/graphql", "", ""))

	cfg, err := config.LoadFromCurrentDir()
	require.NoError(t, err)
	require.Len(t, cfg.Servers, 2)
	assert.Equal(t, "server-2", cfg.Servers[1].Alias)
	assert.Contains(t, te.out.String(), "Added server")
}

func TestInitCommand_ExistingEndpointIsNoop(t *testing.T) {
	setupTestEnvironment(t, []config.Server{
		{Alias: "production", Endpoint: "https://api.shop.example.com/graphql"},
	})
	te := newTestEnv(t)

	require.NoError(t, runInit(te.Env, "https://api.shop.example.com/graphql", "other", ""))

	cfg, err := config.LoadFromCurrentDir()
	require.NoError(t, err)
	assert.Len(t, cfg.Servers, 1)
	assert.Contains(t, te.out.String(), "already exists")
}

func TestInitCommand_DuplicateAlias(t *testing.T) {
	setupTestEnvironment(t, []config.Server{
		{Alias: "staging", Endpoint: "https://staging.shop.example.com/graphql"},
	})
	te := newTestEnv(t)

	err := runInit(te.Env, "https://api.shop.example.com/graphql", "staging", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already used")
}

func TestInitCommand_InvalidEndpoint(t *testing.T) {
	t.Chdir(t.TempDir())
	te := newTestEnv(t)

	err := runInit(te.Env, "ftp://shop.example.com", "", "")
	assert.Error(t, err)
}
