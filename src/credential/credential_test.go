package credential

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/apimgr/hostscout/src/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOSTSCOUT_TEST_KEY", "")
	return &Store{
		Path:       filepath.Join(dir, "config", "api_key.json"),
		LegacyPath: filepath.Join(dir, "legacy", "api_key.json"),
		Env:        "HOSTSCOUT_TEST_KEY",
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestStoreSaveLoad(t *testing.T) {
	s := testStore(t)

	if err := s.Save("  abc123\n"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	key, source, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if key != "abc123" || source != SourceFile {
		t.Errorf("Load() = %q, %q", key, source)
	}

	data, _ := os.ReadFile(s.Path)
	if string(data) != `{"api_key":"abc123"}` {
		t.Errorf("file = %s", data)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(s.Path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("perm = %o, want 0600", perm)
		}
	}
}

func TestStoreLoadMissing(t *testing.T) {
	s := testStore(t)

	_, _, err := s.Load()
	if !errors.Is(err, model.ErrMissingAPIKey) {
		t.Errorf("Load() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestStoreLoadLegacy(t *testing.T) {
	s := testStore(t)
	writeFile(t, s.LegacyPath, `{"api_key": "old-key"}`)

	key, source, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if key != "old-key" || source != SourceLegacy {
		t.Errorf("Load() = %q, %q", key, source)
	}

	// primary wins once written
	writeFile(t, s.Path, `{"api_key": "new-key"}`)
	key, source, _ = s.Load()
	if key != "new-key" || source != SourceFile {
		t.Errorf("Load() = %q, %q after primary written", key, source)
	}
}

func TestStoreLoadEnvOverride(t *testing.T) {
	s := testStore(t)
	writeFile(t, s.Path, `{"api_key": "file-key"}`)
	t.Setenv("HOSTSCOUT_TEST_KEY", "env-key")

	key, source, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if key != "env-key" || source != SourceEnv {
		t.Errorf("Load() = %q, %q", key, source)
	}
}

func TestStoreLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "abc123"},
		{"empty key", `{"api_key": ""}`},
		{"wrong shape", `["abc"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testStore(t)
			writeFile(t, s.Path, tt.content)

			_, _, err := s.Load()
			var cfgErr *model.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Load() error = %v, want *ConfigError", err)
			}
			if cfgErr.Path != s.Path {
				t.Errorf("Path = %q, want %q", cfgErr.Path, s.Path)
			}
		})
	}
}

func TestStoreRemove(t *testing.T) {
	s := testStore(t)

	removed, err := s.Remove()
	if err != nil || removed {
		t.Errorf("Remove() on missing file = %v, %v", removed, err)
	}

	if err := s.Save("k"); err != nil {
		t.Fatal(err)
	}
	removed, err = s.Remove()
	if err != nil || !removed {
		t.Errorf("Remove() = %v, %v", removed, err)
	}
	if _, err := os.Stat(s.Path); !os.IsNotExist(err) {
		t.Error("key file still present")
	}
}

func TestPromptFromPipe(t *testing.T) {
	var out bytes.Buffer

	key, err := Prompt(strings.NewReader("  piped-key  \n"), &out)
	if err != nil {
		t.Fatalf("Prompt() error = %v", err)
	}
	if key != "piped-key" {
		t.Errorf("Prompt() = %q", key)
	}
	if !strings.Contains(out.String(), "API key") {
		t.Errorf("prompt text = %q", out.String())
	}
}

func TestPromptEmpty(t *testing.T) {
	_, err := Prompt(strings.NewReader(""), &bytes.Buffer{})
	if !errors.Is(err, model.ErrMissingAPIKey) {
		t.Errorf("Prompt() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestResolvePromptsAndSaves(t *testing.T) {
	s := testStore(t)
	var out bytes.Buffer

	key, err := Resolve(s, strings.NewReader("fresh-key\n"), &out)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if key != "fresh-key" {
		t.Errorf("Resolve() = %q", key)
	}

	stored, _, err := s.Load()
	if err != nil || stored != "fresh-key" {
		t.Errorf("stored key = %q, %v", stored, err)
	}
}

func TestResolveBrokenFileDoesNotPrompt(t *testing.T) {
	s := testStore(t)
	writeFile(t, s.Path, `{"api_key": ""}`)
	var out bytes.Buffer

	_, err := Resolve(s, strings.NewReader("should-not-be-read\n"), &out)
	var cfgErr *model.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Resolve() error = %v, want *ConfigError", err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected prompt: %q", out.String())
	}
}
