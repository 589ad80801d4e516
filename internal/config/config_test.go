package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Arizalb/jokicbt/internal/cbtapi"
)

// isolate points every lookup Load performs at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, k := range []string{"JOKICBT_CONFIG", "JOKICBT_BASE_URL", "JOKICBT_TIMEOUT", "JOKICBT_DB",
		"JOKICBT_DEV_ADDR", "JOKICBT_DEV_SECRET", "JOKICBT_DEV_BANK"} {
		t.Setenv(k, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != cbtapi.DefaultBaseURL {
		t.Errorf("base url = %q, want %q", cfg.BaseURL, cbtapi.DefaultBaseURL)
	}
	if cfg.Timeout != cbtapi.DefaultTimeout {
		t.Errorf("timeout = %s, want %s", cfg.Timeout, cbtapi.DefaultTimeout)
	}
	if cfg.Dev.Addr == "" || cfg.Dev.Secret == "" {
		t.Error("expected dev defaults")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate defaults: %v", err)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cfg.yaml")
	writeFile(t, path, `
base_url: http://localhost:8787
timeout: 5s
messages:
  fetch: Gagal memuat soal.
dev:
  addr: ":9000"
  bank_path: bank.yaml
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8787" {
		t.Errorf("base url = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %s, want 5s", cfg.Timeout)
	}
	if cfg.Messages.Fetch != "Gagal memuat soal." {
		t.Errorf("fetch message = %q", cfg.Messages.Fetch)
	}
	if cfg.Messages.Submit == "" {
		t.Error("submit message default lost")
	}
	if cfg.Dev.Addr != ":9000" || cfg.Dev.BankPath != "bank.yaml" {
		t.Errorf("dev = %+v", cfg.Dev)
	}
}

func TestLoad_DefaultPathUnderXDG(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "jokicbt", "config.yaml"), "base_url: http://xdg.local\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "http://xdg.local" {
		t.Errorf("base url = %q, want http://xdg.local", cfg.BaseURL)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_UnknownField(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cfg.yaml")
	writeFile(t, path, "base_ulr: typo\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cfg.yaml")
	writeFile(t, path, "base_url: http://file.local\ntimeout: 5s\n")
	t.Setenv("JOKICBT_BASE_URL", "http://env.local")
	t.Setenv("JOKICBT_TIMEOUT", "2s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "http://env.local" {
		t.Errorf("base url = %q, want env value", cfg.BaseURL)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("timeout = %s, want 2s", cfg.Timeout)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "JOKICBT_DEV_SECRET=from-dotenv\n")
	// godotenv never overrides variables that are already set.
	os.Unsetenv("JOKICBT_DEV_SECRET")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Dev.Secret != "from-dotenv" {
		t.Errorf("secret = %q, want from-dotenv", cfg.Dev.Secret)
	}
	os.Unsetenv("JOKICBT_DEV_SECRET")
}

func TestLoad_BadTimeout(t *testing.T) {
	isolate(t)
	t.Setenv("JOKICBT_TIMEOUT", "soon")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for bad JOKICBT_TIMEOUT")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty base url")
	}

	cfg = DefaultConfig()
	cfg.Timeout = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative timeout")
	}
}
