package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/apimgr/hostscout/src/model"
)

func TestIsKnownKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"api.base_url", true},
		{"api.request_interval", true},
		{"cache.backend", true},
		{"metrics.file", true},
		{"api.nope", false},
		{"server.port", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := isKnownKey(tt.key); got != tt.want {
				t.Errorf("isKnownKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestConfigInitGetSet(t *testing.T) {
	home := testEnv(t, "http://127.0.0.1:1")
	cfgPath := filepath.Join(home, ".config", "apimgr", "hostscout", "cli.yml")

	stdout, _, err := execute(t, "", "config", "init")
	if err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if !strings.Contains(stdout, cfgPath) {
		t.Errorf("config init output = %q", stdout)
	}
	info, err := os.Stat(cfgPath)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %o, want 600", info.Mode().Perm())
	}

	if _, _, err := execute(t, "", "config", "init"); err == nil {
		t.Error("second config init should fail")
	}

	if _, _, err := execute(t, "", "config", "set", "enrich.workers", "8"); err != nil {
		t.Fatalf("config set error = %v", err)
	}

	stdout, _, err = execute(t, "", "config", "get", "enrich.workers")
	if err != nil {
		t.Fatalf("config get error = %v", err)
	}
	if strings.TrimSpace(stdout) != "8" {
		t.Errorf("enrich.workers = %q, want 8", stdout)
	}
}

func TestConfigUnknownKey(t *testing.T) {
	testEnv(t, "http://127.0.0.1:1")

	if _, _, err := execute(t, "", "config", "set", "api.nope", "x"); err == nil {
		t.Error("config set with unknown key should fail")
	}
	if _, _, err := execute(t, "", "config", "get", "api.nope"); err == nil {
		t.Error("config get with unknown key should fail")
	}
}

func TestConfigShow(t *testing.T) {
	testEnv(t, "http://127.0.0.1:1")

	stdout, _, err := execute(t, "", "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, want := range []string{"base_url:", "request_interval:", "backend: none"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config show missing %q:\n%s", want, stdout)
		}
	}
}

func TestBrokenConfigFile(t *testing.T) {
	var calls atomic.Int32
	srv := shodanStub(t, &calls)
	home := testEnv(t, srv.URL)

	cfgPath := filepath.Join(home, "broken.yml")
	os.WriteFile(cfgPath, []byte("api: [unterminated\n"), 0600)

	_, _, err := execute(t, "", "apache", "-c", cfgPath)

	var ce *model.ConfigError
	if !errors.As(err, &ce) || !errors.Is(err, model.ErrInvalidConfig) {
		t.Fatalf("error = %v, want ConfigError wrapping ErrInvalidConfig", err)
	}
	if calls.Load() != 0 {
		t.Errorf("remote calls = %d, want 0", calls.Load())
	}
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	var calls atomic.Int32
	srv := shodanStub(t, &calls)
	home := testEnv(t, srv.URL)

	cfgPath := filepath.Join(home, "custom.yml")
	os.WriteFile(cfgPath, []byte("output:\n  format: json\n"), 0600)

	stdout, _, err := execute(t, "", "info", "-c", cfgPath)
	if err != nil {
		t.Fatalf("info error = %v", err)
	}
	if !strings.Contains(stdout, `"plan": "dev"`) {
		t.Errorf("info with json config = %q", stdout)
	}
}
