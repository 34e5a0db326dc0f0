// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
app:
  name: ruafit
  environment: development
  port: 8080
  base_url: https://ruafit.example
database:
  driver: sqlite
  filename: ruafit.db
offline:
  refresh_interval: 15m
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Port != 8080 {
		t.Errorf("port = %d", cfg.App.Port)
	}
	if cfg.Database.Filename != "ruafit.db" {
		t.Errorf("filename = %q", cfg.Database.Filename)
	}
	if cfg.Offline.RefreshInterval != 15*time.Minute {
		t.Errorf("refresh interval = %v", cfg.Offline.RefreshInterval)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
app:
  name: ruafit
  port: 8080
database:
  driver: sqlite
  filename: ruafit.db
`)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_BASE_URL", "https://other.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.App.Port)
	}
	if cfg.App.BaseURL != "https://other.example" {
		t.Errorf("base URL = %q", cfg.App.BaseURL)
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, `
app:
  name: ruafit
  port: 8080
database:
  driver: postgres
  filename: ruafit.db
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestValidateRequiresName(t *testing.T) {
	path := writeConfig(t, `
app:
  port: 8080
database:
  driver: sqlite
  filename: ruafit.db
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for missing app name")
	}
}
