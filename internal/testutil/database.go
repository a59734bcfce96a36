package testutil

import (
	"path/filepath"
	"testing"
)

// NewTestDatabasePath returns a path for a history database inside a
// temporary directory that is removed when the test completes.
func NewTestDatabasePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "history.duckdb")
}
