// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type OfflineConfig struct {
	// RefreshInterval is how often the cached content generation is
	// refreshed from the origin. Zero disables the periodic job.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	// Origin is an optional remote origin URL. Empty means the caches
	// are filled from the in-process handlers.
	Origin string `yaml:"origin"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		// BaseURL is the public address encoded in the share QR code.
		BaseURL string `yaml:"base_url"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Content struct {
		// Dir overrides the embedded seed content when set.
		Dir string `yaml:"dir"`
	} `yaml:"content"`

	Offline OfflineConfig `yaml:"offline"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Read and parse YAML config
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Environment overrides for deploy-time values
	if port := os.Getenv("APP_PORT"); port != "" {
		if _, err := fmt.Sscanf(port, "%d", &cfg.App.Port); err != nil {
			return nil, fmt.Errorf("invalid APP_PORT: %w", err)
		}
	}
	if base := os.Getenv("APP_BASE_URL"); base != "" {
		cfg.App.BaseURL = base
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}
	if c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.Filename == "" {
		return fmt.Errorf("database filename is required for sqlite")
	}
	if c.Offline.RefreshInterval < 0 {
		return fmt.Errorf("offline refresh interval must not be negative")
	}
	return nil
}
