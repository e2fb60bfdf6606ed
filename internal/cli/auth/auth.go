package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "storefront-cli"
)

// ErrNotAuthenticated is returned when no token is stored for a server
var ErrNotAuthenticated = errors.New("not authenticated. Please run 'storefront login' first")

// getKeyringKey returns a unique key for storing session tokens per server endpoint
func getKeyringKey(endpoint string) string {
	return fmt.Sprintf("token-%s", endpoint)
}

// SaveToken persists the session token securely in the OS keychain/credential manager
func SaveToken(endpoint, token string) error {
	key := getKeyringKey(endpoint)
	if err := keyring.Set(service, key, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// LoadToken retrieves the session token from the OS keychain/credential manager
func LoadToken(endpoint string) (string, error) {
	key := getKeyringKey(endpoint)
	token, err := keyring.Get(service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotAuthenticated
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// DeleteToken removes the session token from the OS keychain/credential manager.
// Deleting a token that does not exist is not an error.
func DeleteToken(endpoint string) error {
	key := getKeyringKey(endpoint)
	if err := keyring.Delete(service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
