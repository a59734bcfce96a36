// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/coral-mesh/symsize/internal/constants"
)

// Loader handles loading and saving the configuration file.
type Loader struct {
	dir string
}

// NewLoader creates a new config loader.
// The config directory is resolved in this order:
//  1. SYMSIZE_CONFIG environment variable.
//  2. ~/.symsize.
//  3. .symsize in the working directory when no home directory exists.
func NewLoader() *Loader {
	if dir := os.Getenv(constants.ConfigEnvVar); dir != "" {
		return NewLoaderAt(dir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return NewLoaderAt(filepath.Join(home, constants.DefaultDir))
	}
	return NewLoaderAt(constants.DefaultDir)
}

// NewLoaderAt creates a loader rooted at dir.
func NewLoaderAt(dir string) *Loader {
	return &Loader{dir: dir}
}

// ConfigPath returns the path to the config file.
func (l *Loader) ConfigPath() string {
	return filepath.Join(l.dir, constants.ConfigFile)
}

// Load reads the config file on top of the defaults and applies environment
// variable overrides. A missing file is not an error.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	//nolint:gosec // G304: Path is from the trusted config directory.
	data, err := os.ReadFile(l.ConfigPath())
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", l.ConfigPath(), err)
		}
	}

	if err := LoadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to the config file, creating the directory if needed.
func (l *Loader) Save(cfg *Config) error {
	//nolint:gosec // G301: Directory needs standard permissions for traversal
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	//nolint:gosec // G306: config file is not sensitive
	if err := os.WriteFile(l.ConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
