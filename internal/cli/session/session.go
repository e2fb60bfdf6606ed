// Package session holds the local authentication state of the CLI for one
// server: the token kept in the OS keyring and the profile remembered in the
// user config. A Store is created per server and passed to whoever needs it.
package session

import (
	"errors"
	"fmt"

	"github.com/storefront-dev/storefront/internal/cli/auth"
	"github.com/storefront-dev/storefront/internal/cli/userconfig"
)

// ErrNotAuthenticated is returned by Token when no session exists
var ErrNotAuthenticated = auth.ErrNotAuthenticated

// Status is the authentication status of a local session
type Status int

const (
	LoggedOut Status = iota
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	default:
		return "logged out"
	}
}

// State is a snapshot of the local session
type State struct {
	Status  Status
	Profile userconfig.Profile
}

// Authenticated reports whether a token is stored
func (s State) Authenticated() bool {
	return s.Status == Authenticated
}

// ProfileStore persists the identity of the logged-in user
type ProfileStore interface {
	SaveProfile(endpoint string, profile userconfig.Profile) error
	GetProfile(endpoint string) (userconfig.Profile, bool, error)
	DeleteProfile(endpoint string) error
}

type userConfigProfiles struct{}

func (userConfigProfiles) SaveProfile(endpoint string, profile userconfig.Profile) error {
	return userconfig.SaveProfile(endpoint, profile)
}

func (userConfigProfiles) GetProfile(endpoint string) (userconfig.Profile, bool, error) {
	return userconfig.GetProfile(endpoint)
}

func (userConfigProfiles) DeleteProfile(endpoint string) error {
	return userconfig.DeleteProfile(endpoint)
}

// DefaultProfiles stores profiles in the user config file
var DefaultProfiles ProfileStore = userConfigProfiles{}

// Store is the local session of one server endpoint
type Store struct {
	endpoint string
	tokens   auth.TokenStore
	profiles ProfileStore
}

// New creates a session store for endpoint
func New(endpoint string, tokens auth.TokenStore, profiles ProfileStore) *Store {
	return &Store{
		endpoint: endpoint,
		tokens:   tokens,
		profiles: profiles,
	}
}

// NewDefault creates a session store backed by the OS keyring and the user config
func NewDefault(endpoint string) *Store {
	return New(endpoint, auth.Default, DefaultProfiles)
}

// Endpoint returns the server endpoint this session belongs to
func (s *Store) Endpoint() string {
	return s.endpoint
}

// Token returns the stored session token
func (s *Store) Token() (string, error) {
	return s.tokens.LoadToken(s.endpoint)
}

// State reports whether the client is authenticated against the endpoint
func (s *Store) State() (State, error) {
	_, err := s.tokens.LoadToken(s.endpoint)
	if errors.Is(err, ErrNotAuthenticated) {
		return State{Status: LoggedOut}, nil
	}
	if err != nil {
		return State{}, err
	}

	profile, _, err := s.profiles.GetProfile(s.endpoint)
	if err != nil {
		return State{}, err
	}

	return State{Status: Authenticated, Profile: profile}, nil
}

// Begin records a freshly issued session
func (s *Store) Begin(token string, profile userconfig.Profile) error {
	if token == "" {
		return fmt.Errorf("refusing to store an empty session token")
	}

	if err := s.tokens.SaveToken(s.endpoint, token); err != nil {
		return err
	}

	if err := s.profiles.SaveProfile(s.endpoint, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}

// Clear resets the session to logged out. It is safe to call when already
// logged out. Both the token and the profile removal are always attempted.
func (s *Store) Clear() error {
	var errs []error

	if err := s.tokens.DeleteToken(s.endpoint); err != nil {
		errs = append(errs, err)
	}

	if err := s.profiles.DeleteProfile(s.endpoint); err != nil {
		errs = append(errs, fmt.Errorf("failed to delete profile: %w", err))
	}

	return errors.Join(errs...)
}
