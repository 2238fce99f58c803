package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.Overwrite = true
	cfg.RetentionDays = 7
	cfg.IgnorePatterns = []string{"*.tmp"}
	require.NoError(t, cfg.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFileFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"overwrite": true}`), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.Overwrite)
	assert.Equal(t, Default().RetentionDays, cfg.RetentionDays)
	assert.Equal(t, Default().IgnorePatterns, cfg.IgnorePatterns)
	assert.Equal(t, Default().LogLevel, cfg.LogLevel)
	// Absent booleans keep their defaults rather than decaying to false.
	assert.True(t, cfg.PreserveExtension)
	assert.True(t, cfg.CreateBackup)
}

func TestLoadFilePartialKeepsBooleanDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"retention_days": 7}`), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.RetentionDays)
	assert.True(t, cfg.PreserveExtension)
	assert.True(t, cfg.CreateBackup)
	assert.False(t, cfg.Overwrite)
}

func TestLoadFileExplicitFalseWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"preserve_extension": false, "create_backup": false}`), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.False(t, cfg.PreserveExtension)
	assert.False(t, cfg.CreateBackup)
}

func TestLoadFileInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestSaveFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "config.json")
	require.NoError(t, Default().SaveFile(path))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
