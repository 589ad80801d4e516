// Package config resolves client and dev server settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Arizalb/jokicbt/internal/cbtapi"
	"github.com/Arizalb/jokicbt/internal/quiz"
)

// Config holds everything the CLI needs before it touches the network.
type Config struct {
	// BaseURL is the test service root. Default: cbtapi.DefaultBaseURL.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each request. Default: 20s.
	Timeout time.Duration `yaml:"timeout"`

	// DBPath overrides the sqlite location. Empty means store.DefaultDBPath.
	DBPath string `yaml:"db_path"`

	Messages MessagesConfig `yaml:"messages"`
	Dev      DevConfig      `yaml:"dev"`
}

// MessagesConfig overrides the user-facing failure text.
type MessagesConfig struct {
	Fetch  string `yaml:"fetch"`
	Submit string `yaml:"submit"`
}

// DevConfig configures the local dev server.
type DevConfig struct {
	Addr     string        `yaml:"addr"`      // Default: "127.0.0.1:8787"
	Secret   string        `yaml:"secret"`    // HS256 signing key
	BankPath string        `yaml:"bank_path"` // YAML question bank; empty uses the sample bank
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: cbtapi.DefaultBaseURL,
		Timeout: cbtapi.DefaultTimeout,
		Messages: MessagesConfig{
			Fetch:  quiz.DefaultFetchMessage,
			Submit: quiz.DefaultSubmitMessage,
		},
		Dev: DevConfig{
			Addr:     "127.0.0.1:8787",
			Secret:   "jokicbt-dev-secret",
			TokenTTL: 12 * time.Hour,
		},
	}
}

// Load builds a Config from defaults, then the YAML file at path (if any),
// then a .env file in the working directory, then JOKICBT_* variables.
// An empty path falls back to DefaultPath; a missing default file is not an
// error, a missing explicit one is.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return cfg, err
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DefaultPath returns $JOKICBT_CONFIG or $XDG_CONFIG_HOME/jokicbt/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("JOKICBT_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "jokicbt", "config.yaml")
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if u := os.Getenv("JOKICBT_BASE_URL"); u != "" {
		cfg.BaseURL = u
	}
	if t := os.Getenv("JOKICBT_TIMEOUT"); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return fmt.Errorf("JOKICBT_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if p := os.Getenv("JOKICBT_DB"); p != "" {
		cfg.DBPath = p
	}
	if a := os.Getenv("JOKICBT_DEV_ADDR"); a != "" {
		cfg.Dev.Addr = a
	}
	if s := os.Getenv("JOKICBT_DEV_SECRET"); s != "" {
		cfg.Dev.Secret = s
	}
	if b := os.Getenv("JOKICBT_DEV_BANK"); b != "" {
		cfg.Dev.BankPath = b
	}
	return nil
}

// Validate checks values that would otherwise fail later and less clearly.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}
