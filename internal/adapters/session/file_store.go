package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shieldsight/shieldsight-cli/internal/core"
)

// storeVersion is the on-disk format version. Files with a different
// version are rejected on load rather than reinterpreted.
const storeVersion = 1

// envelope is the versioned on-disk session format.
type envelope struct {
	Version int           `json:"version"`
	Session *core.Session `json:"session"`
}

// FileStore persists the auth session as a versioned JSON file. The
// contract is load-on-init, save-on-mutation; there is no in-place
// partial update.
type FileStore struct {
	path string
}

// NewFileStore creates a session store at the given path. An empty path
// defaults to $HOME/.shieldsight/session.json.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".shieldsight", "session.json")
	}
	return &FileStore{path: path}, nil
}

// Load reads the persisted session. A missing file yields (nil, nil).
func (s *FileStore) Load() (*core.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if env.Version != storeVersion {
		return nil, fmt.Errorf("unsupported session file version: %d", env.Version)
	}
	return env.Session, nil
}

// Save persists the session, replacing any previous one. The file is
// written with owner-only permissions since it carries tokens.
func (s *FileStore) Save(session *core.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(envelope{Version: storeVersion, Session: session}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear removes the persisted session. A missing file is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
