package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

// ErrNotFound is returned by a TokenStore that holds no token.
var ErrNotFound = errors.New("no stored token")

// TokenStore persists the OAuth2 token between runs.
type TokenStore interface {
	Load() (*oauth2.Token, error)
	Save(tok *oauth2.Token) error
	Delete() error
}

// FileStore keeps the token as JSON in a single file readable only by the
// owner.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// DefaultTokenPath returns dir/auth/token.json.
func DefaultTokenPath(dir string) string {
	return filepath.Join(dir, "auth", "token.json")
}

// Load reads the stored token.
func (s *FileStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", s.Path, err)
	}
	return &tok, nil
}

// Save writes the token atomically.
func (s *FileStore) Save(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmpPath := s.Path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// Delete removes the token file.
func (s *FileStore) Delete() error {
	err := os.Remove(s.Path)
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}

const (
	keyringService = "promille"
	keyringUser    = "api-token"
)

// KeyringStore keeps the token as JSON in the OS keyring.
type KeyringStore struct {
	Service string
	User    string
}

// NewKeyringStore returns a KeyringStore using the promille service entry.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{Service: keyringService, User: keyringUser}
}

// Load reads the token from the keyring.
func (s *KeyringStore) Load() (*oauth2.Token, error) {
	data, err := keyring.Get(s.Service, s.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading token from keyring: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal([]byte(data), &tok); err != nil {
		return nil, fmt.Errorf("corrupt keyring token: %w", err)
	}
	return &tok, nil
}

// Save stores the token in the keyring.
func (s *KeyringStore) Save(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	if err := keyring.Set(s.Service, s.User, string(data)); err != nil {
		return fmt.Errorf("storing token in keyring: %w", err)
	}
	return nil
}

// Delete removes the keyring entry.
func (s *KeyringStore) Delete() error {
	err := keyring.Delete(s.Service, s.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting token from keyring: %w", err)
	}
	return nil
}
