// Package system provides infrastructure for system-level configuration
// loaded from ~/.classlist/config.yaml.
package system

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/classlist/internal/domain/services"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// DefaultMaxLineLength is the only line limit class lists accept.
const DefaultMaxLineLength = 4096

// MaxWorkers bounds the configured resolution concurrency.
const MaxWorkers = 64

//go:embed config.schema.json
var configSchema []byte

// Config represents the global configuration file (~/.classlist/config.yaml).
type Config struct {
	FailFast          *bool           `yaml:"fail_fast,omitempty"`
	ReleaseConstraint string          `yaml:"release_constraint"`
	Redaction         RedactionConfig `yaml:"redaction,omitempty"`
	History           HistoryConfig   `yaml:"history,omitempty"`
	Classpath         []string        `yaml:"classpath"`
	Workers           int             `yaml:"workers"`
	MaxLineLength     int             `yaml:"max_line_length"`
	StrictVersions    bool            `yaml:"strict_versions"`
}

// HistoryConfig controls on-disk storage of check results.
type HistoryConfig struct {
	// Path of the database directory. Defaults to ~/.classlist/history.
	Path    string `yaml:"path,omitempty"`
	Enabled bool   `yaml:"enabled,omitempty"`
}

// RedactionConfig controls credential scrubbing of check reports.
type RedactionConfig struct {
	Patterns        []string `yaml:"patterns,omitempty"`
	Salt            string   `yaml:"salt,omitempty"`
	Disabled        bool     `yaml:"disabled,omitempty"`
	HashMode        bool     `yaml:"hash_mode,omitempty"`
	DisableGitleaks bool     `yaml:"disable_gitleaks,omitempty"`
}

// DefaultConfig returns a Config with defaults for all fields.
// This is used when no system config file exists.
func DefaultConfig() *Config {
	failFast := true
	return &Config{
		FailFast:          &failFast,
		ReleaseConstraint: services.DefaultReleaseConstraint,
		Classpath:         []string{},
		Workers:           0, // 0 means engine default
		MaxLineLength:     DefaultMaxLineLength,
	}
}

// IsFailFast reports whether checking stops at the first failing entry.
func (c *Config) IsFailFast() bool {
	return c.FailFast == nil || *c.FailFast
}

// DefaultConfigPath returns ~/.classlist/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".classlist", "config.yaml"), nil
}

// HistoryPath returns the configured history directory or the default.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".classlist", "history"), nil
}

// ConfigLoader loads system configuration from disk.
type ConfigLoader struct{}

// NewConfigLoader creates a new system config loader.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// LoadConfig implements the application's system config port.
func (l *ConfigLoader) LoadConfig(_ context.Context, path string) (*Config, error) {
	return l.Load(path)
}

// Load loads the system configuration from the specified path.
// If the file does not exist, returns DefaultConfig().
func (l *ConfigLoader) Load(path string) (*Config, error) {
	//nolint:gosec // G304: path is the user's config file
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read system config: %w", err)
	}
	return Parse(data)
}

// Parse validates and decodes a config document. Missing fields take
// their defaults.
func Parse(data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return DefaultConfig(), nil
	}

	if err := validateSchema(data); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse system config: %w", err)
	}
	if cfg.ReleaseConstraint == "" {
		cfg.ReleaseConstraint = services.DefaultReleaseConstraint
	}
	if cfg.MaxLineLength == 0 {
		cfg.MaxLineLength = DefaultMaxLineLength
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks constraints the schema cannot express.
func (c *Config) Validate() error {
	if c.MaxLineLength != DefaultMaxLineLength {
		return fmt.Errorf("max_line_length must be %d, got %d", DefaultMaxLineLength, c.MaxLineLength)
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 0 and %d, got %d", MaxWorkers, c.Workers)
	}
	if _, err := services.NewReleasePolicy(c.ReleaseConstraint, c.StrictVersions); err != nil {
		return fmt.Errorf("release_constraint: %w", err)
	}
	return nil
}

// Save writes the configuration as YAML, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode system config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write system config: %w", err)
	}
	return nil
}

func validateSchema(data []byte) error {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("failed to parse system config: %w", err)
	}
	var doc any
	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return fmt.Errorf("failed to parse system config: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("config.schema.json", bytes.NewReader(configSchema)); err != nil {
		return fmt.Errorf("failed to add config schema: %w", err)
	}
	schema, err := compiler.Compile("config.schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile config schema: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return formatSchemaValidationError(validationErr)
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// formatSchemaValidationError formats a JSON Schema validation error into a readable message.
func formatSchemaValidationError(err *jsonschema.ValidationError) error {
	var messages []string

	var collectErrors func(*jsonschema.ValidationError)
	collectErrors = func(e *jsonschema.ValidationError) {
		// Only leaf errors carry a useful message.
		if len(e.Causes) == 0 && e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collectErrors(cause)
		}
	}
	collectErrors(err)

	if len(messages) == 0 {
		return fmt.Errorf("config validation failed")
	}
	return fmt.Errorf("config validation failed:\n    - %s", strings.Join(messages, "\n    - "))
}
