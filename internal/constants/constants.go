// Package constants defines shared configuration constants.
package constants

var (
	ConfigFile = "config.yaml"

	DefaultDir = ".symsize"

	// ConfigEnvVar overrides the directory holding ConfigFile.
	ConfigEnvVar = "SYMSIZE_CONFIG"

	// UnknownGroup is the group used for symbols without a usable name.
	UnknownGroup = "<unknown>"

	// PathSeparator splits a demangled name into namespace segments.
	PathSeparator = "::"

	// HTMLPlaceholder is replaced by the JSON rows in the HTML report template.
	HTMLPlaceholder = "{{DATA}}"

	// HistoryTable is the DuckDB table that stores analysis runs.
	HistoryTable = "crate_sizes"

	DefaultLogLevel = "warn"

	DefaultOutputFormat = "table"

	DefaultDemangler = "auto"
)
