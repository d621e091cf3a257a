package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"

	"github.com/peaceding/recordium/internal/shared"
)

// DefaultTokenPath returns the default credential file location under the user's home directory.
func DefaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".recordium", "spotify_token.json")
	}
	return filepath.Join(home, ".recordium", "spotify_token.json")
}

// TokenStore persists a single OAuth2 token as a JSON file readable only by the owner.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store backed by the given file path.
// An empty path falls back to [DefaultTokenPath].
func NewTokenStore(path string) *TokenStore {
	if path == "" {
		path = DefaultTokenPath()
	}
	return &TokenStore{path: path}
}

// Path returns the file the store reads and writes.
func (s *TokenStore) Path() string {
	return s.path
}

// Save writes the token to disk with owner-only permissions.
func (s *TokenStore) Save(token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("%w: nil token", shared.ErrPersistence)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to encode token: %v", shared.ErrPersistence, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("%w: failed to create credential directory: %v", shared.ErrPersistence, err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: failed to write credential file: %v", shared.ErrPersistence, err)
	}

	return nil
}

// Load reads a previously saved token. A missing file returns
// [shared.ErrNotFound]; an unreadable or undecodable file returns the
// underlying error so callers can decide whether to swallow it.
func (s *TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no stored credential at %s", shared.ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to decode credential file: %w", err)
	}

	return &token, nil
}

// Clear removes the stored credential. Removing an absent file is a no-op.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: failed to remove credential file: %v", shared.ErrPersistence, err)
	}
	return nil
}
