// Package config persists application settings and named rule presets
// under ~/.simplerename.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the persisted application settings.
type Config struct {
	// PreserveExtension applies rules to the name stem only; the extension
	// is carried over unless a rule explicitly targets it.
	PreserveExtension bool `json:"preserve_extension"`
	// CreateBackup enables backup-on-overwrite copies. With backups
	// disabled, overwrites are refused entirely.
	CreateBackup bool `json:"create_backup"`
	// Overwrite allows proposals that replace existing files.
	Overwrite bool `json:"overwrite"`
	// RetentionDays bounds how long history entries and their backups are
	// kept.
	RetentionDays int `json:"retention_days"`
	// IgnorePatterns are glob patterns for files excluded from scans.
	IgnorePatterns []string `json:"ignore_patterns"`
	// LogLevel sets diagnostic verbosity (debug, info, warn, error).
	LogLevel string `json:"log_level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		PreserveExtension: true,
		CreateBackup:      true,
		Overwrite:         false,
		RetentionDays:     30,
		IgnorePatterns:    []string{".DS_Store", "Thumbs.db"},
		LogLevel:          "warn",
	}
}

// Dir returns the application directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".simplerename"), nil
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from disk, returning defaults when no config
// file exists and filling any missing fields from defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration from a specific path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal over the defaults so fields absent from the file keep their
	// default values, booleans included.
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to disk.
func (cfg *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return cfg.SaveFile(path)
}

// SaveFile writes the configuration to a specific path.
func (cfg *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
