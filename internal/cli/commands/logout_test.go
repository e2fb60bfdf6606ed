package commands

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-dev/storefront/internal/cli/config"
	"github.com/storefront-dev/storefront/internal/cli/userconfig"
)

// logoutServer counts logout calls and records the Authorization header
type logoutServer struct {
	*httptest.Server
	calls      atomic.Int32
	authHeader atomic.Value
}

func newLogoutServer(t *testing.T, handler func(w http.ResponseWriter)) *logoutServer {
	t.Helper()

	ls := &logoutServer{}
	ls.authHeader.Store("")
	ls.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if !strings.Contains(body.Query, "logout") {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		ls.calls.Add(1)
		ls.authHeader.Store(r.Header.Get("Authorization"))
		handler(w)
	}))
	t.Cleanup(ls.Close)

	return ls
}

func loggedIn(te *testEnv, endpoint string) {
	te.tokens.tokens[endpoint] = "session-token"
	te.profiles.profiles[endpoint] = userconfig.Profile{
		UserID: "user-123",
		Email:  "ada@example.com",
		Name:   "Ada",
	}
}

func TestLogoutCommand_Success(t *testing.T) {
	ts := newLogoutServer(t, func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"logout":true}}`))
	})
	endpoint := ts.URL + "/graphql"
	setupTestEnvironment(t, []config.Server{{Alias: "local", Endpoint: endpoint}})

	te := newTestEnv(t)
	loggedIn(te, endpoint)

	require.NoError(t, runLogout(context.Background(), te.Env, ""))

	assert.Equal(t, int32(1), ts.calls.Load())
	assert.Equal(t, "Bearer session-token", ts.authHeader.Load())
	assert.Empty(t, te.tokens.tokens)
	assert.Empty(t, te.profiles.profiles)
	assert.Contains(t, te.out.String(), "✓ Logged out of local.\nRun 'storefront login' to sign in again.\n")
	assert.NotContains(t, te.logs.String(), "Remote logout failed")
}

func TestLogoutCommand_ServerErrorStillLogsOut(t *testing.T) {
	ts := newLogoutServer(t, func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream unavailable"))
	})
	endpoint := ts.URL + "/graphql"
	setupTestEnvironment(t, []config.Server{{Alias: "local", Endpoint: endpoint}})

	te := newTestEnv(t)
	loggedIn(te, endpoint)

	err := runLogout(context.Background(), te.Env, "")

	require.NoError(t, err, "remote failures never reach the caller")
	assert.Equal(t, int32(1), ts.calls.Load())
	assert.Empty(t, te.tokens.tokens)
	assert.Empty(t, te.profiles.profiles)
	assert.Contains(t, te.out.String(), "✓ Logged out of local.")
	assert.Contains(t, te.logs.String(), "Remote logout failed")
}

func TestLogoutCommand_GraphQLErrorStillLogsOut(t *testing.T) {
	ts := newLogoutServer(t, func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors":[{"message":"Invalid or expired token"}]}`))
	})
	endpoint := ts.URL + "/graphql"
	setupTestEnvironment(t, []config.Server{{Alias: "local", Endpoint: endpoint}})

	te := newTestEnv(t)
	loggedIn(te, endpoint)

	require.NoError(t, runLogout(context.Background(), te.Env, ""))

	assert.Empty(t, te.tokens.tokens)
	assert.Contains(t, te.logs.String(), "Invalid or expired token")
	assert.Contains(t, te.out.String(), "✓ Logged out of local.")
}

func TestLogoutCommand_TimeoutStillLogsOut(t *testing.T) {
	release := make(chan struct{})
	ts := newLogoutServer(t, func(w http.ResponseWriter) {
		<-release
	})
	defer close(release)

	endpoint := ts.URL + "/graphql"
	setupTestEnvironment(t, []config.Server{{Alias: "local", Endpoint: endpoint}})

	te := newTestEnv(t)
	te.Settings.LogoutTimeout = 50 * time.Millisecond
	loggedIn(te, endpoint)

	require.NoError(t, runLogout(context.Background(), te.Env, ""))

	assert.Empty(t, te.tokens.tokens)
	assert.Contains(t, te.out.String(), "✓ Logged out of local.")
	assert.Contains(t, te.logs.String(), "Remote logout failed")
}

func TestLogoutCommand_AlreadyLoggedOut(t *testing.T) {
	ts := newLogoutServer(t, func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"logout":true}}`))
	})
	endpoint := ts.URL + "/graphql"
	setupTestEnvironment(t, []config.Server{{Alias: "local", Endpoint: endpoint}})

	te := newTestEnv(t)

	require.NoError(t, runLogout(context.Background(), te.Env, ""))

	assert.Equal(t, int32(1), ts.calls.Load(), "server is still asked")
	assert.Equal(t, "", ts.authHeader.Load(), "no credentials without a token")
	assert.Contains(t, te.out.String(), "✓ Logged out of local.")
}

func TestLogoutCommand_OpensLoginPage(t *testing.T) {
	ts := newLogoutServer(t, func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"logout":true}}`))
	})
	endpoint := ts.URL + "/graphql"
	setupTestEnvironment(t, []config.Server{
		{Alias: "local", Endpoint: endpoint, WebURL: "https://shop.example.com"},
	})

	te := newTestEnv(t)
	te.Settings.OpenBrowser = true
	loggedIn(te, endpoint)

	require.NoError(t, runLogout(context.Background(), te.Env, ""))

	assert.Equal(t, []string{"https://shop.example.com/login"}, te.opened)
	assert.Contains(t, te.out.String(), "✓ Logged out of local.")
	assert.NotContains(t, te.out.String(), "Run 'storefront login'")
	assert.Empty(t, te.tokens.tokens)
}

func TestLogoutCommand_BrowserFailureFallsBackToHint(t *testing.T) {
	ts := newLogoutServer(t, func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"logout":true}}`))
	})
	endpoint := ts.URL + "/graphql"
	setupTestEnvironment(t, []config.Server{
		{Alias: "local", Endpoint: endpoint, WebURL: "https://shop.example.com"},
	})

	te := newTestEnv(t)
	te.Settings.OpenBrowser = true
	te.OpenURL = func(string) error { return assert.AnError }
	loggedIn(te, endpoint)

	require.NoError(t, runLogout(context.Background(), te.Env, ""))

	assert.Contains(t, te.out.String(), "✓ Logged out of local.")
	assert.Contains(t, te.out.String(), "Run 'storefront login' to sign in again.")
}

func TestLogoutCommand_UnknownServer(t *testing.T) {
	setupTestEnvironment(t, []config.Server{
		{Alias: "local", Endpoint: "http://localhost:8080/graphql"},
	})
	te := newTestEnv(t)

	err := runLogout(context.Background(), te.Env, "missing")
	assert.Error(t, err)
}
