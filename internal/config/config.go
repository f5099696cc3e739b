// ABOUTME: Configuration management for ifgram with YAML config loading.
// ABOUTME: Handles content source, display, and log settings with env overrides and ~ expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the file nor the environment sets a value.
const (
	DefaultSource   = "./data"
	DefaultViewMode = "grid"
	DefaultAccount  = "if_juku"
	DefaultLogLevel = "info"
)

// Config stores ifgram configuration loaded from ~/.config/ifgram/config.yaml.
type Config struct {
	Content ContentConfig `yaml:"content"`
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
}

// ContentConfig locates the content repository.
type ContentConfig struct {
	Source string `yaml:"source" env:"IFGRAM_CONTENT_SOURCE" env-description:"content directory or http(s) base URL"`
	Watch  bool   `yaml:"watch" env:"IFGRAM_CONTENT_WATCH" env-description:"reload when content files change"`
}

// DisplayConfig holds presentation preferences.
type DisplayConfig struct {
	ViewMode string `yaml:"view_mode" env:"IFGRAM_VIEW_MODE" env-description:"initial layout: grid or feed"`
	Account  string `yaml:"account" env:"IFGRAM_ACCOUNT" env-description:"account handle shown in the header"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `yaml:"level" env:"IFGRAM_LOG_LEVEL" env-description:"debug, info, warn, or error"`
	File  string `yaml:"file" env:"IFGRAM_LOG_FILE" env-description:"log file path"`
}

// Default returns a config with every default filled in.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Content.Source == "" {
		c.Content.Source = DefaultSource
	}
	if c.Display.ViewMode == "" {
		c.Display.ViewMode = DefaultViewMode
	}
	if c.Display.Account == "" {
		c.Display.Account = DefaultAccount
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// IsRemote returns true if the content source is an HTTP(S) URL.
func (c *Config) IsRemote() bool {
	return strings.HasPrefix(c.Content.Source, "http://") || strings.HasPrefix(c.Content.Source, "https://")
}

// GetContentSource returns the content source with ~ expanded for directories.
func (c *Config) GetContentSource() (string, error) {
	if c.IsRemote() {
		return c.Content.Source, nil
	}
	return ExpandPath(c.Content.Source)
}

// GetLogPath returns the log file path, defaulting to $XDG_STATE_HOME/ifgram/ifgram.log.
func (c *Config) GetLogPath() (string, error) {
	if c.Log.File != "" {
		return ExpandPath(c.Log.File)
	}
	return DefaultLogPath()
}

// DefaultLogPath returns the default log file location.
func DefaultLogPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "ifgram", "ifgram.log"), nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "ifgram", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads config from disk and applies IFGRAM_* environment overrides.
// Returns the default config if the file doesn't exist.
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadFile reads config from disk only, without environment overrides. The
// setup wizard uses it so that saving never persists transient env values.
func LoadFile() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// EnvHelp describes the supported environment variables.
func EnvHelp() string {
	help, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return help
}

// Save writes config to disk.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
