package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sonicmood/sonicmood/internal/shared"
)

const (
	configDirName    = "sonicmood"
	verifierFileName = "verifier"
)

// FileVerifierStore keeps the pending PKCE verifier in a file so it survives
// the gap between starting the flow and the browser redirect landing, even
// across a process restart.
type FileVerifierStore struct {
	path string
}

// DefaultVerifierStore returns a FileVerifierStore under the user config
// directory: ~/.config/sonicmood/verifier on Linux.
func DefaultVerifierStore() (*FileVerifierStore, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}
	return NewVerifierStore(filepath.Join(configDir, configDirName, verifierFileName)), nil
}

// NewVerifierStore creates a FileVerifierStore with a custom path.
func NewVerifierStore(path string) *FileVerifierStore {
	return &FileVerifierStore{path: path}
}

// Path returns the file path where the verifier is stored.
func (s *FileVerifierStore) Path() string {
	return s.path
}

// Save writes the pending verifier, replacing any previous one.
func (s *FileVerifierStore) Save(verifier string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create verifier directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(verifier), 0600); err != nil {
		return fmt.Errorf("failed to write verifier: %w", err)
	}
	return nil
}

// Load reads the pending verifier. Returns [shared.ErrMissingVerifier] when
// no verifier file exists or it is empty.
func (s *FileVerifierStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", shared.ErrMissingVerifier
		}
		return "", fmt.Errorf("failed to read verifier: %w", err)
	}
	if len(data) == 0 {
		return "", shared.ErrMissingVerifier
	}
	return string(data), nil
}

// Clear removes the pending verifier, if any.
func (s *FileVerifierStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove verifier: %w", err)
	}
	return nil
}
