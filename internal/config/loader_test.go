package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load_NotExists(t *testing.T) {
	loader := NewLoaderAt(t.TempDir())

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoader_SaveAndLoad(t *testing.T) {
	loader := NewLoaderAt(filepath.Join(t.TempDir(), "nested"))

	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Analyze.Format = "csv"
	cfg.Analyze.Top = 20
	cfg.History.Database = "/var/lib/symsize/history.duckdb"

	require.NoError(t, loader.Save(cfg))
	assert.FileExists(t, loader.ConfigPath())

	loaded, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoader_Load_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoaderAt(dir)
	require.NoError(t, os.WriteFile(loader.ConfigPath(), []byte("analyze:\n  top: 5\n"), 0o644))

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Analyze.Top)
	assert.Equal(t, "table", cfg.Analyze.Format)
	assert.True(t, cfg.Analyze.SynthesizeSizes)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoader_Load_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoaderAt(dir)
	require.NoError(t, os.WriteFile(loader.ConfigPath(), []byte("analyze:\n  format: json\n"), 0o644))

	t.Setenv("SYMSIZE_FORMAT", "csv")
	t.Setenv("SYMSIZE_SYNTHESIZE_SIZES", "false")

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Analyze.Format)
	assert.False(t, cfg.Analyze.SynthesizeSizes)
}

func TestLoader_Load_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoaderAt(dir)
	require.NoError(t, os.WriteFile(loader.ConfigPath(), []byte("analyze: [unclosed"), 0o644))

	_, err := loader.Load()
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoader_Load_InvalidValue(t *testing.T) {
	loader := NewLoaderAt(t.TempDir())
	t.Setenv("SYMSIZE_DEMANGLE", "swift")

	_, err := loader.Load()
	assert.ErrorContains(t, err, "analyze.demangle")
}

func TestNewLoader_EnvDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SYMSIZE_CONFIG", dir)

	loader := NewLoader()
	assert.Equal(t, filepath.Join(dir, "config.yaml"), loader.ConfigPath())
}
