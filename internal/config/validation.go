package config

import (
	"fmt"
	"slices"
	"strings"
)

var (
	validFormats    = []string{"table", "json", "csv"}
	validDemanglers = []string{"auto", "none"}
	validLogLevels  = []string{"trace", "debug", "info", "warn", "error"}
)

// Validate checks that enumerated settings hold known values.
func (c *Config) Validate() error {
	if err := oneOf("logging.level", c.Logging.Level, validLogLevels); err != nil {
		return err
	}
	if err := oneOf("analyze.format", c.Analyze.Format, validFormats); err != nil {
		return err
	}
	if err := oneOf("analyze.demangle", c.Analyze.Demangle, validDemanglers); err != nil {
		return err
	}
	if c.Analyze.Top < 0 {
		return fmt.Errorf("analyze.top must not be negative, got %d", c.Analyze.Top)
	}
	if c.Analyze.MaxFileSize <= 0 {
		return fmt.Errorf("analyze.max_file_size must be positive, got %d", c.Analyze.MaxFileSize)
	}
	return nil
}

func oneOf(key, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("invalid %s %q, must be one of: %s", key, value, strings.Join(allowed, ", "))
}
