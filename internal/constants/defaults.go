// Package constants defines shared configuration constants and defaults.
package constants

import "time"

// Analysis defaults.
const (
	// DefaultMaxFileSize caps the size of an analyzed binary (4 GiB).
	DefaultMaxFileSize int64 = 4 << 30

	// DefaultTopRows is the console row limit. Zero prints every group.
	DefaultTopRows = 0
)

// Timeouts - Default timeout values.
const (
	// DefaultQueryTimeout is the default timeout for history database operations.
	DefaultQueryTimeout = 30 * time.Second
)
