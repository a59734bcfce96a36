package config

import (
	"github.com/coral-mesh/symsize/internal/constants"
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: SchemaVersion,
		Logging: LoggingConfig{
			Level:  constants.DefaultLogLevel,
			Pretty: true,
		},
		Analyze: AnalyzeConfig{
			Format:          constants.DefaultOutputFormat,
			Top:             constants.DefaultTopRows,
			Demangle:        constants.DefaultDemangler,
			SynthesizeSizes: true,
			MaxFileSize:     constants.DefaultMaxFileSize,
		},
	}
}
