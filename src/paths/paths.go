// Package paths resolves the CLI's config, cache and log locations.
// Linux and macOS follow XDG-style dot directories; Windows uses
// APPDATA and LOCALAPPDATA.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	projectOrg  = "apimgr"
	projectName = "hostscout"
)

// legacyDir is where older releases kept the API key
const legacyDir = ".shodan_scout"

func home() string {
	h, _ := os.UserHomeDir()
	return h
}

// ConfigDir returns the CLI config directory
// Linux: ~/.config/apimgr/hostscout/
// Windows: %APPDATA%\apimgr\hostscout\
func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), projectOrg, projectName)
	}
	return filepath.Join(home(), ".config", projectOrg, projectName)
}

// CacheDir returns the CLI cache directory
// Linux: ~/.cache/apimgr/hostscout/
func CacheDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("LOCALAPPDATA"), projectOrg, projectName, "cache")
	}
	return filepath.Join(home(), ".cache", projectOrg, projectName)
}

// LogDir returns the CLI log directory
// Linux: ~/.local/log/apimgr/hostscout/
func LogDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("LOCALAPPDATA"), projectOrg, projectName, "log")
	}
	return filepath.Join(home(), ".local", "log", projectOrg, projectName)
}

// ConfigFile returns the CLI config file path
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "cli.yml")
}

// CredentialFile returns the API key file path
func CredentialFile() string {
	return filepath.Join(ConfigDir(), "api_key.json")
}

// LegacyCredentialFile returns the key file used by older releases
func LegacyCredentialFile() string {
	return filepath.Join(home(), legacyDir, "api_key.json")
}

// LogFile returns the CLI log file path
func LogFile() string {
	return filepath.Join(LogDir(), "cli.log")
}

// MetricsFile returns the default Prometheus textfile path
func MetricsFile() string {
	return filepath.Join(CacheDir(), "hostscout.prom")
}

// EnsureDirs creates all CLI directories with 0700 permissions.
// Called on every startup before any file operations.
func EnsureDirs() error {
	dirs := []string{
		ConfigDir(),
		CacheDir(),
		LogDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
		// Ensure permissions even if dir existed
		if err := os.Chmod(dir, 0700); err != nil {
			return fmt.Errorf("chmod dir %s: %w", dir, err)
		}
	}
	return nil
}

// EnsureParent creates the parent directory of path
func EnsureParent(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	return nil
}

// Expand replaces a leading ~ with the home directory
func Expand(path string) string {
	if path == "~" {
		return home()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home(), path[2:])
	}
	return path
}

// ResolveConfigPath resolves the --config flag to an absolute path.
// Relative names are taken from the config dir and get .yml appended
// when they have no extension.
func ResolveConfigPath(configFlag string) (string, error) {
	if configFlag == "" {
		return ConfigFile(), nil
	}

	configFlag = Expand(configFlag)

	if filepath.IsAbs(configFlag) {
		return addExtIfNeeded(configFlag)
	}

	return addExtIfNeeded(filepath.Join(ConfigDir(), configFlag))
}

// addExtIfNeeded adds .yml extension if no extension provided
func addExtIfNeeded(path string) (string, error) {
	ext := filepath.Ext(path)
	if ext == ".yml" || ext == ".yaml" {
		return path, nil
	}

	if ext == "" {
		ymlPath := path + ".yml"
		if _, err := os.Stat(ymlPath); err == nil {
			return ymlPath, nil
		}
		yamlPath := path + ".yaml"
		if _, err := os.Stat(yamlPath); err == nil {
			return yamlPath, nil
		}
		return ymlPath, nil
	}

	return path, nil
}
