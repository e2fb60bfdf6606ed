package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-dev/storefront/internal/cli/auth"
	"github.com/storefront-dev/storefront/internal/cli/userconfig"
)

const endpoint = "http://localhost:8080/graphql"

// mockTokenStore is a simple in-memory token store for testing
type mockTokenStore struct {
	tokens    map[string]string
	deleteErr error
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{tokens: make(map[string]string)}
}

func (m *mockTokenStore) SaveToken(endpoint, token string) error {
	m.tokens[endpoint] = token
	return nil
}

func (m *mockTokenStore) LoadToken(endpoint string) (string, error) {
	token, ok := m.tokens[endpoint]
	if !ok {
		return "", auth.ErrNotAuthenticated
	}
	return token, nil
}

func (m *mockTokenStore) DeleteToken(endpoint string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.tokens, endpoint)
	return nil
}

type mockProfiles struct {
	profiles map[string]userconfig.Profile
	deletes  int
}

func newMockProfiles() *mockProfiles {
	return &mockProfiles{profiles: make(map[string]userconfig.Profile)}
}

func (m *mockProfiles) SaveProfile(endpoint string, p userconfig.Profile) error {
	m.profiles[endpoint] = p
	return nil
}

func (m *mockProfiles) GetProfile(endpoint string) (userconfig.Profile, bool, error) {
	p, ok := m.profiles[endpoint]
	return p, ok, nil
}

func (m *mockProfiles) DeleteProfile(endpoint string) error {
	m.deletes++
	delete(m.profiles, endpoint)
	return nil
}

func TestStore_Lifecycle(t *testing.T) {
	tokens := newMockTokenStore()
	profiles := newMockProfiles()
	store := New(endpoint, tokens, profiles)

	state, err := store.State()
	require.NoError(t, err)
	assert.False(t, state.Authenticated())
	assert.Equal(t, "logged out", state.Status.String())

	profile := userconfig.Profile{UserID: "u1", Email: "ada@example.com", LoggedInAt: time.Now().UTC()}
	require.NoError(t, store.Begin("tok", profile))

	state, err = store.State()
	require.NoError(t, err)
	assert.True(t, state.Authenticated())
	assert.Equal(t, profile, state.Profile)

	token, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	require.NoError(t, store.Clear())

	state, err = store.State()
	require.NoError(t, err)
	assert.Equal(t, LoggedOut, state.Status)
	_, err = store.Token()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestStore_ClearWhenLoggedOut(t *testing.T) {
	store := New(endpoint, newMockTokenStore(), newMockProfiles())

	assert.NoError(t, store.Clear())
	assert.NoError(t, store.Clear())
}

func TestStore_ClearAttemptsBothDeletes(t *testing.T) {
	tokens := newMockTokenStore()
	tokens.deleteErr = errors.New("keyring locked")
	profiles := newMockProfiles()
	store := New(endpoint, tokens, profiles)

	err := store.Clear()
	assert.ErrorContains(t, err, "keyring locked")
	assert.Equal(t, 1, profiles.deletes)
}

func TestStore_BeginRejectsEmptyToken(t *testing.T) {
	store := New(endpoint, newMockTokenStore(), newMockProfiles())
	assert.Error(t, store.Begin("", userconfig.Profile{}))
}
