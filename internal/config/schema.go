package config

// SchemaVersion is the configuration schema version.
const SchemaVersion = "1"

// Config represents ~/.symsize/config.yaml.
// Values are layered: defaults, then the file, then SYMSIZE_* environment
// variables, then command-line flags.
type Config struct {
	Version string        `yaml:"version"`
	Logging LoggingConfig `yaml:"logging"`
	Analyze AnalyzeConfig `yaml:"analyze"`
	History HistoryConfig `yaml:"history,omitempty"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"SYMSIZE_LOG_LEVEL"` // trace, debug, info, warn, error
	Pretty bool   `yaml:"pretty" env:"SYMSIZE_LOG_PRETTY"`
}

// AnalyzeConfig holds defaults for `symsize analyze`.
type AnalyzeConfig struct {
	Format          string `yaml:"format" env:"SYMSIZE_FORMAT"`     // table, json, csv
	Top             int    `yaml:"top" env:"SYMSIZE_TOP"`           // 0 prints every group
	Demangle        string `yaml:"demangle" env:"SYMSIZE_DEMANGLE"` // auto, none
	SynthesizeSizes bool   `yaml:"synthesize_sizes" env:"SYMSIZE_SYNTHESIZE_SIZES"`
	MaxFileSize     int64  `yaml:"max_file_size" env:"SYMSIZE_MAX_FILE_SIZE"`
}

// HistoryConfig holds defaults for the DuckDB history export.
type HistoryConfig struct {
	// Database is used by --duckdb and `symsize history` when no path is given.
	Database string `yaml:"database,omitempty" env:"SYMSIZE_HISTORY_DB"`
}
