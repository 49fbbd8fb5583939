// Package config provides configuration management for hbnb.
//
// Config file locations (priority order):
//  1. $HBNB_CONFIG
//  2. ./hbnb.yaml
//  3. $XDG_CONFIG_HOME/hbnb/config.yaml
//  4. ~/.config/hbnb/config.yaml
//  5. /etc/hbnb/config.yaml
//
// When none exists the defaults apply: records are kept in ./file.json.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFilePath   = "file.json"
	DefaultSQLitePath = "hbnb.db"
	DefaultPrompt     = "(hbnb) "
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Storage: StorageConfig{Driver: DriverFile, Path: DefaultFilePath},
		Logging: LoggingConfig{Level: "info", Format: FormatConsole},
		Console: ConsoleConfig{Prompt: DefaultPrompt},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverFile
	}
	if c.Storage.Path == "" {
		c.Storage.Path = c.Storage.Driver.DefaultPath()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = FormatConsole
	}
	if c.Console.Prompt == "" {
		c.Console.Prompt = DefaultPrompt
	}
}

var validate = validator.New()

// Validate checks that every setting names something that exists
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError formats validation errors into readable messages
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.ToLower(strings.TrimPrefix(e.Namespace(), "Config."))
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s (got %q)", field, e.Param(), e.Value()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// DefaultPath returns where the driver keeps data when no path is set
func (d Driver) DefaultPath() string {
	if d == DriverSQLite {
		return DefaultSQLitePath
	}
	return DefaultFilePath
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	return fmt.Sprintf("storage: %s at %s, logging: %s/%s",
		c.Storage.Driver, c.Storage.Path, c.Logging.Level, c.Logging.Format)
}
