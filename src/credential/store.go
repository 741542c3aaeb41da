// Package credential loads, prompts for and persists the provider API key.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/apimgr/hostscout/src/model"
	"github.com/apimgr/hostscout/src/paths"
)

// EnvVar overrides any stored key
const EnvVar = "HOSTSCOUT_API_KEY"

// Sources reported by Load
const (
	SourceEnv    = "env"
	SourceFile   = "file"
	SourceLegacy = "legacy"
)

// keyFile is the on-disk layout
type keyFile struct {
	APIKey string `json:"api_key"`
}

// Store reads and writes the key file. LegacyPath is only ever read.
type Store struct {
	Path       string
	LegacyPath string
	Env        string
}

// DefaultStore returns a store at the standard locations
func DefaultStore() *Store {
	return &Store{
		Path:       paths.CredentialFile(),
		LegacyPath: paths.LegacyCredentialFile(),
		Env:        EnvVar,
	}
}

// Load returns the key and where it came from. A missing key returns
// ErrMissingAPIKey; an unreadable or malformed file returns *ConfigError.
func (s *Store) Load() (string, string, error) {
	if s.Env != "" {
		if key := strings.TrimSpace(os.Getenv(s.Env)); key != "" {
			return key, SourceEnv, nil
		}
	}

	key, err := readKeyFile(s.Path)
	if err == nil {
		return key, SourceFile, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", "", err
	}

	if s.LegacyPath != "" {
		key, err = readKeyFile(s.LegacyPath)
		if err == nil {
			return key, SourceLegacy, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", "", err
		}
	}

	return "", "", model.ErrMissingAPIKey
}

// Save writes key to Path with 0600 permissions
func (s *Store) Save(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return &model.ConfigError{Path: s.Path, Err: model.ErrMissingAPIKey}
	}

	if err := paths.EnsureParent(s.Path); err != nil {
		return &model.ConfigError{Path: s.Path, Err: err}
	}

	data, err := json.Marshal(keyFile{APIKey: key})
	if err != nil {
		return &model.ConfigError{Path: s.Path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".api_key-*")
	if err != nil {
		return &model.ConfigError{Path: s.Path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return &model.ConfigError{Path: s.Path, Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &model.ConfigError{Path: s.Path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &model.ConfigError{Path: s.Path, Err: err}
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return &model.ConfigError{Path: s.Path, Err: err}
	}
	return nil
}

// Remove deletes the key file. It reports false if there was none.
func (s *Store) Remove() (bool, error) {
	err := os.Remove(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &model.ConfigError{Path: s.Path, Err: err}
	}
	return true, nil
}

func readKeyFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if err != nil {
		return "", &model.ConfigError{Path: path, Err: err}
	}

	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return "", &model.ConfigError{Path: path, Err: fmt.Errorf("malformed key file: %w", err)}
	}
	key := strings.TrimSpace(kf.APIKey)
	if key == "" {
		return "", &model.ConfigError{Path: path, Err: model.ErrMissingAPIKey}
	}
	return key, nil
}
