// Package config manages the passgen configuration file.
//
// Settings live in ~/.passgen_config.json. Missing files and unknown keys
// are not errors: loading falls back to defaults and writes them out, so
// the file is always present and editable after first use.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xiunchen/passgen/internal/generator"
)

const ConfigFile = ".passgen_config.json"

// Config holds all user-tunable settings.
type Config struct {
	// Password generator defaults
	DefaultPasswordLength int    `json:"default_password_length"`
	DefaultUseUppercase   bool   `json:"default_use_uppercase"`
	DefaultUseLowercase   bool   `json:"default_use_lowercase"`
	DefaultUseDigits      bool   `json:"default_use_digits"`
	DefaultUseSymbols     bool   `json:"default_use_symbols"`
	DefaultSymbols        string `json:"default_symbols"`

	// Security settings
	SessionTimeoutSeconds     int `json:"session_timeout_seconds"`
	AutoClearClipboardSeconds int `json:"auto_clear_clipboard_seconds"`
	MaxAuthAttempts           int `json:"max_auth_attempts"`

	// UI settings
	ShowPasswordStrength bool `json:"show_password_strength"`

	// Storage settings
	StoragePath string `json:"storage_path,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DefaultPasswordLength:     generator.DefaultLength,
		DefaultUseUppercase:       true,
		DefaultUseLowercase:       true,
		DefaultUseDigits:          true,
		DefaultUseSymbols:         true,
		DefaultSymbols:            generator.DefaultSymbols,
		SessionTimeoutSeconds:     300,
		AutoClearClipboardSeconds: 30,
		MaxAuthAttempts:           3,
		ShowPasswordStrength:      true,
	}
}

// GeneratorConfig converts the configured defaults into a generator config.
func (c Config) GeneratorConfig() generator.Config {
	return generator.Config{
		Length:        c.DefaultPasswordLength,
		UseUppercase:  c.DefaultUseUppercase,
		UseLowercase:  c.DefaultUseLowercase,
		UseDigits:     c.DefaultUseDigits,
		UseSymbols:    c.DefaultUseSymbols,
		CustomSymbols: c.DefaultSymbols,
	}
}

// DefaultPath returns the config file location in the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ConfigFile), nil
}

// Load reads the config file at path, filling in defaults for anything
// missing. When the file does not exist the defaults are saved to create
// it.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return cfg, fmt.Errorf("cannot read config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("cannot parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the config as indented JSON, owner read/write only.
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("cannot write config: %w", err)
	}
	return nil
}
