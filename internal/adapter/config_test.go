package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := DefaultConfig()
	if cfg.Backend != want.Backend {
		t.Errorf("Backend = %+v, want %+v", cfg.Backend, want.Backend)
	}
	if cfg.Logging != want.Logging {
		t.Errorf("Logging = %+v, want %+v", cfg.Logging, want.Logging)
	}
	if cfg.Cache != want.Cache {
		t.Errorf("Cache = %+v, want %+v", cfg.Cache, want.Cache)
	}
	if cfg.History != want.History {
		t.Errorf("History = %+v, want %+v", cfg.History, want.History)
	}
	if cfg.UI.UnknownModName != "Unknown Mod" || cfg.UI.Locale != "" {
		t.Errorf("UI = %+v", cfg.UI)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `backend:
  url: http://localhost:9000
  timeout: 30s
ui:
  locale: fr
logging:
  level: debug
  format: text
history:
  enabled: false
  retention_days: 7
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Backend.URL != "http://localhost:9000" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout != 30*time.Second {
		t.Errorf("Backend.Timeout = %v", cfg.Backend.Timeout)
	}
	if cfg.UI.Locale != "fr" {
		t.Errorf("UI.Locale = %q", cfg.UI.Locale)
	}
	if cfg.UI.UnknownModName != "Unknown Mod" {
		t.Errorf("UI.UnknownModName = %q, want default", cfg.UI.UnknownModName)
	}
	if cfg.Logging.Format != "text" || cfg.Logging.Level != "debug" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.History.Enabled || cfg.History.RetentionDays != 7 {
		t.Errorf("History = %+v", cfg.History)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MODKEEPER_BACKEND_URL", "http://10.0.0.2:7878")
	t.Setenv("MODKEEPER_UI_LOCALE", "fr_FR.UTF-8")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Backend.URL != "http://10.0.0.2:7878" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if cfg.UI.Locale != "fr_FR.UTF-8" {
		t.Errorf("UI.Locale = %q", cfg.UI.Locale)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend.URL = "http://example.test:1234"
	cfg.Backend.Timeout = 90 * time.Second
	cfg.UI.Locale = "en"
	cfg.UI.OpenCommand = "firefox"
	cfg.UI.OpenArgs = []string{"--new-tab"}

	path, err := SaveConfig(cfg, filepath.Join(t.TempDir(), "nested", "config.yaml"))
	if err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestClearCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	if err := os.MkdirAll(filepath.Join(dir, "abc"), 0755); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{Cache: CacheConfig{Dir: dir}}

	if err := ClearCache(cfg); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("cache dir still exists: %v", err)
	}
	// Clearing twice is fine
	if err := ClearCache(cfg); err != nil {
		t.Errorf("second ClearCache: %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in, want string
	}{
		{"~/logs/a.log", filepath.Join(home, "logs/a.log")},
		{"/var/log/a.log", "/var/log/a.log"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := expandHome(tt.in); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
