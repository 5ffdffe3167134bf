package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	EnvAPIURL   = "NOVELFLOW_API_URL"
	EnvToken    = "NOVELFLOW_TOKEN"
	EnvLogLevel = "NOVELFLOW_LOG_LEVEL"
)

const DefaultAPIURL = "http://localhost:8000/api/v1"

type Config struct {
	APIURL                 string `json:"api_url" validate:"required,url"`
	Theme                  string `json:"theme" validate:"oneof=light dark"`
	LogLevel               string `json:"log_level" validate:"oneof=debug info warn error"`
	EchoTypedMessage       bool   `json:"echo_typed_message"`
	NotificationTTLSeconds int    `json:"notification_ttl_seconds" validate:"min=1,max=600"`

	// Token comes only from the environment and is never written to disk.
	Token string `json:"-"`
}

func DefaultConfig() Config {
	return Config{
		APIURL:                 DefaultAPIURL,
		Theme:                  "dark",
		LogLevel:               "info",
		NotificationTTLSeconds: 5,
	}
}

func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "novelflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "novelflow")
}

// Path is the config file location.
func Path() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// Load reads the config file over the defaults, then applies .env and
// environment overrides. A missing or malformed file yields defaults.
func Load() Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if data, err := os.ReadFile(Path()); err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			cfg = DefaultConfig()
		}
	}

	cfg.APIURL = getEnv(EnvAPIURL, cfg.APIURL)
	cfg.LogLevel = getEnv(EnvLogLevel, cfg.LogLevel)
	cfg.Token = os.Getenv(EnvToken)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Validate checks field values. Load never fails, so callers that need a
// usable config validate explicitly.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(), data, 0o644)
}
