package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// isolate points XDG_CONFIG_HOME at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvToken, "")
	t.Setenv(EnvLogLevel, "")
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.APIURL != "http://localhost:8000/api/v1" {
		t.Errorf("api_url = %q, want http://localhost:8000/api/v1", cfg.APIURL)
	}
	if cfg.Theme != "dark" {
		t.Errorf("theme = %q, want dark", cfg.Theme)
	}
	if cfg.EchoTypedMessage {
		t.Error("echo_typed_message should default to false")
	}
	if cfg.NotificationTTLSeconds != 5 {
		t.Errorf("notification_ttl_seconds = %d, want 5", cfg.NotificationTTLSeconds)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	cfg.APIURL = "https://novels.example.com/api/v1"
	cfg.Theme = "light"
	cfg.EchoTypedMessage = true

	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "novelflow", "config.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	loaded := Load()
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("got %+v, want %+v", loaded, cfg)
	}
}

func TestSave_NeverWritesToken(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	cfg.Token = "secret-token"
	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "novelflow", "config.json"))
	if strings.Contains(string(data), "secret-token") {
		t.Errorf("token leaked into config file: %s", data)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	isolate(t)

	cfg := Load()
	expected := DefaultConfig()
	if !reflect.DeepEqual(cfg, expected) {
		t.Errorf("got %+v, want defaults %+v", cfg, expected)
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	dir := isolate(t)

	configDir := filepath.Join(dir, "novelflow")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte("not json"), 0o644)

	cfg := Load()
	expected := DefaultConfig()
	if !reflect.DeepEqual(cfg, expected) {
		t.Errorf("malformed json: got %+v, want defaults", cfg)
	}
}

func TestLoad_PartialJSON(t *testing.T) {
	dir := isolate(t)

	configDir := filepath.Join(dir, "novelflow")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte(`{"theme": "light"}`), 0o644)

	cfg := Load()
	if cfg.Theme != "light" {
		t.Errorf("Theme = %q, want light from file", cfg.Theme)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want %q (default preserved)", cfg.APIURL, DefaultAPIURL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	if err := Save(DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvAPIURL, "http://10.0.0.2:9000/api/v1")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvToken, "env-token")

	cfg := Load()
	if cfg.APIURL != "http://10.0.0.2:9000/api/v1" {
		t.Errorf("APIURL = %q, want env value", cfg.APIURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Token != "env-token" {
		t.Errorf("Token = %q, want env-token", cfg.Token)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"https url", func(c *Config) { c.APIURL = "https://example.com/api/v1" }, false},
		{"not a url", func(c *Config) { c.APIURL = "localhost-ish" }, true},
		{"empty url", func(c *Config) { c.APIURL = "" }, true},
		{"unknown theme", func(c *Config) { c.Theme = "solarized" }, true},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }, true},
		{"zero ttl", func(c *Config) { c.NotificationTTLSeconds = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDir_XDG(t *testing.T) {
	dir := isolate(t)

	got := ConfigDir()
	want := filepath.Join(dir, "novelflow")
	if got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
	if Path() != filepath.Join(want, "config.json") {
		t.Errorf("Path() = %q", Path())
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := isolate(t)

	appDir := filepath.Join(dir, "novelflow")
	if _, err := os.Stat(appDir); err == nil {
		t.Fatal("novelflow dir shouldn't exist yet")
	}

	Save(DefaultConfig())

	if _, err := os.Stat(appDir); err != nil {
		t.Errorf("Save should create directory: %v", err)
	}
}

func TestSave_JSONFormat(t *testing.T) {
	dir := isolate(t)

	Save(DefaultConfig())

	data, _ := os.ReadFile(filepath.Join(dir, "novelflow", "config.json"))

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("saved config is not valid JSON: %v", err)
	}
	for _, key := range []string{"api_url", "theme", "log_level", "echo_typed_message", "notification_ttl_seconds"} {
		if _, ok := parsed[key]; !ok {
			t.Errorf("saved config missing %q", key)
		}
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("expected indented JSON output")
	}
}
