package credentials

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

// Fixed key pair addressing the persisted token in the OS secret store.
const (
	KeyringService = "monzo-sheets"
	KeyringAccount = "google-oauth-token"
)

// Store persists one serialized token blob. Implementations are addressed by
// a fixed key chosen at construction; the Manager treats the store as opaque.
type Store interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Delete() error
}

// KeyringStore keeps the token in the OS keyring under (Service, Account).
type KeyringStore struct {
	Service string
	Account string
}

// NewKeyringStore returns a KeyringStore with the default service and account.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{Service: KeyringService, Account: KeyringAccount}
}

// Load reads the token blob from the keyring.
func (s *KeyringStore) Load() ([]byte, error) {
	secret, err := keyring.Get(s.Service, s.Account)
	if err != nil {
		return nil, fmt.Errorf("keyring get %s/%s: %w", s.Service, s.Account, err)
	}
	return []byte(secret), nil
}

// Save writes the token blob to the keyring.
func (s *KeyringStore) Save(data []byte) error {
	if err := keyring.Set(s.Service, s.Account, string(data)); err != nil {
		return fmt.Errorf("keyring set %s/%s: %w", s.Service, s.Account, err)
	}
	return nil
}

// Delete removes the token blob from the keyring.
func (s *KeyringStore) Delete() error {
	if err := keyring.Delete(s.Service, s.Account); err != nil {
		return fmt.Errorf("keyring delete %s/%s: %w", s.Service, s.Account, err)
	}
	return nil
}

// FileStore keeps the token in a JSON file, for hosts without a usable
// keyring backend. The directory is created with 0700 and the file with 0600.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore rooted at dir. An empty dir defaults to
// ~/.monzo-sheets.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".monzo-sheets")
	}
	return &FileStore{Path: filepath.Join(dir, "token.json")}, nil
}

// Load reads the token file.
func (s *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read token file %q: %w", s.Path, err)
	}
	return data, nil
}

// Save writes the token file, creating the parent directory if needed.
func (s *FileStore) Save(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("write token file %q: %w", s.Path, err)
	}
	return nil
}

// Delete removes the token file.
func (s *FileStore) Delete() error {
	if err := os.Remove(s.Path); err != nil {
		return fmt.Errorf("remove token file %q: %w", s.Path, err)
	}
	return nil
}
