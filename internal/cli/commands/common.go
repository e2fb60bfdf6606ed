package commands

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/storefront-dev/storefront/internal/cli/auth"
	"github.com/storefront-dev/storefront/internal/cli/client"
	"github.com/storefront-dev/storefront/internal/cli/config"
	"github.com/storefront-dev/storefront/internal/cli/navigate"
	"github.com/storefront-dev/storefront/internal/cli/serverselect"
	"github.com/storefront-dev/storefront/internal/cli/session"
	"github.com/storefront-dev/storefront/internal/cli/settings"
)

// Env carries the collaborators commands use, so tests can swap the
// keyring, the network and the browser.
type Env struct {
	Out        io.Writer
	Tokens     auth.TokenStore
	Profiles   session.ProfileStore
	HTTPClient *http.Client // nil keeps the client default
	Settings   *settings.Settings
	Logger     zerolog.Logger
	OpenURL    func(url string) error
}

// DefaultEnv returns the production environment
func DefaultEnv() *Env {
	return &Env{
		Out:      os.Stdout,
		Tokens:   auth.Default,
		Profiles: session.DefaultProfiles,
		Settings: settings.Defaults(),
		Logger:   zerolog.Nop(),
		OpenURL:  navigate.OpenURL,
	}
}

func (e *Env) printf(format string, args ...any) {
	fmt.Fprintf(e.Out, format, args...)
}

func (e *Env) println(args ...any) {
	fmt.Fprintln(e.Out, args...)
}

// session returns the local session of server
func (e *Env) session(server *config.Server) *session.Store {
	return session.New(server.Endpoint, e.Tokens, e.Profiles)
}

// client returns an API client for server authenticated with token
func (e *Env) client(server *config.Server, token string) *client.Client {
	c := client.New(server.Endpoint)
	if e.HTTPClient != nil {
		c.SetHTTPClient(e.HTTPClient)
	}
	c.SetLogger(e.Logger)
	c.SetToken(token)
	return c
}

// authedClient returns a client carrying the stored session token
func (e *Env) authedClient(server *config.Server) (*client.Client, *session.Store, error) {
	store := e.session(server)
	token, err := store.Token()
	if err != nil {
		return nil, nil, err
	}
	return e.client(server, token), store, nil
}

// getSelectedServer loads the config and returns the selected server.
// This is common logic used by most commands.
func getSelectedServer(serverAlias string) (*config.Server, error) {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'storefront init' to create a configuration file", err)
	}

	server, err := serverselect.ResolveServer(cfg, serverAlias)
	if err != nil {
		return nil, err
	}

	if err := server.Validate(); err != nil {
		return nil, err
	}

	return server, nil
}
