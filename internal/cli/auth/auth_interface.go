package auth

// TokenStore defines the interface for token storage operations
// This allows us to mock the keyring in tests
type TokenStore interface {
	SaveToken(endpoint, token string) error
	LoadToken(endpoint string) (string, error)
	DeleteToken(endpoint string) error
}

// keyringTokenStore implements TokenStore using the OS keyring
type keyringTokenStore struct{}

// Default is the keyring-backed store used by the CLI
var Default TokenStore = &keyringTokenStore{}

func (k *keyringTokenStore) SaveToken(endpoint, token string) error {
	return SaveToken(endpoint, token)
}

func (k *keyringTokenStore) LoadToken(endpoint string) (string, error) {
	return LoadToken(endpoint)
}

func (k *keyringTokenStore) DeleteToken(endpoint string) error {
	return DeleteToken(endpoint)
}
