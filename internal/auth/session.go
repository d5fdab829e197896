package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TokenStore persists the single serialized session token. An empty
// string denotes "no session".
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

type sessionFile struct {
	Token string `json:"token"`
}

// FileTokenStore keeps the token in a JSON file at a fixed path,
// written with owner-only permissions since it carries a signed
// credential.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore returns a store backed by the given path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(sessionFile{Token: token})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read session file: %w", err)
	}
	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		// A corrupt session file is equivalent to no session.
		return "", nil
	}
	return f.Token, nil
}

// Clear overwrites the token with an empty string. Clearing an absent
// or already-empty session is a no-op, so the call is idempotent.
func (s *FileTokenStore) Clear() error {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil
	}
	return s.Save("")
}

// MemoryTokenStore holds the token in memory. Used by tests and
// available as a swap-in backend.
type MemoryTokenStore struct {
	token string
}

func NewMemoryTokenStore() *MemoryTokenStore { return &MemoryTokenStore{} }

func (s *MemoryTokenStore) Save(token string) error { s.token = token; return nil }
func (s *MemoryTokenStore) Load() (string, error)   { return s.token, nil }
func (s *MemoryTokenStore) Clear() error            { s.token = ""; return nil }
