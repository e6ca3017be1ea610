package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	require.False(t, cfg.Logging.Debug)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mfp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /var/lib/mfp/allocations.sqlite3
logging:
  dir: /var/log/mfp
  debug: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/var/lib/mfp/allocations.sqlite3", cfg.Database.Path)
	require.Equal(t, "/var/log/mfp", cfg.Logging.Dir)
	require.True(t, cfg.Logging.Debug)
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mfp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  debug: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	require.True(t, cfg.Logging.Debug)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
