package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/wishlist/pkg/errors"
	"github.com/agentstation/wishlist/pkg/storage"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, storage.DriverSQLite, config.StorageDriver)
	assert.Equal(t, storage.DefaultKey, config.StorageKey)
	assert.Equal(t, "localhost", config.ServerHost)
	assert.Equal(t, 8080, config.ServerPort)
	assert.Equal(t, "auto", config.LogFormat)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WISHLIST_STORAGE_DRIVER", "files")
	t.Setenv("WISHLIST_STORAGE_PATH", "/var/lib/wishlist")
	t.Setenv("WISHLIST_SERVER_PORT", "9000")
	t.Setenv("WISHLIST_OUTPUT", "json")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, storage.DriverFiles, config.StorageDriver)
	assert.Equal(t, "/var/lib/wishlist", config.StoragePath)
	assert.Equal(t, 9000, config.ServerPort)
	assert.Equal(t, "json", config.Format)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "wishlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  driver: memory
  key: favorites
catalog:
  path: /etc/wishlist/catalog.yaml
log:
  level: debug
`), 0o600))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, storage.DriverMemory, config.StorageDriver)
	assert.Equal(t, "favorites", config.StorageKey)
	assert.Equal(t, "/etc/wishlist/catalog.yaml", config.CatalogPath)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, path, config.ConfigFile)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	t.Setenv("WISHLIST_STORAGE_DRIVER", "redis")
	_, err = LoadConfig("")
	assert.ErrorAs(t, err, &cfgErr)
}

func TestResolvedStoragePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{"sqlite default", Config{StorageDriver: storage.DriverSQLite}, filepath.Join(home, ".wishlist", "wishlist.db")},
		{"files default", Config{StorageDriver: storage.DriverFiles}, filepath.Join(home, ".wishlist", "data")},
		{"explicit", Config{StorageDriver: storage.DriverSQLite, StoragePath: "/tmp/w.db"}, "/tmp/w.db"},
		{"tilde", Config{StorageDriver: storage.DriverFiles, StoragePath: "~/wl"}, filepath.Join(home, "wl")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.config.ResolvedStoragePath()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenStorage(t *testing.T) {
	dir := t.TempDir()

	for _, driver := range storage.Drivers() {
		t.Run(string(driver), func(t *testing.T) {
			path := filepath.Join(dir, string(driver))
			if driver == storage.DriverSQLite {
				path += ".db"
			}
			s, closer, err := openStorage(&Config{StorageDriver: driver, StoragePath: path})
			require.NoError(t, err)
			t.Cleanup(func() { _ = closer.Close() })

			require.NoError(t, s.Set(t.Context(), "k", "v"))
			v, ok, err := s.Get(t.Context(), "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "v", v)
		})
	}
}
