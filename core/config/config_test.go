package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, 3306, cfg.Database.Port)
		assert.Equal(t, "catalog", cfg.Storage.Bucket)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Serializer.Format)
		assert.Equal(t, 0, cfg.Serializer.Indent)
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("DATABASE_DRIVER", "mysql")
		t.Setenv("SERIALIZER_FORMAT", "yaml")
		t.Setenv("STORAGE_USE_SSL", "true")

		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, "mysql", cfg.Database.Driver)
		assert.Equal(t, "yaml", cfg.Serializer.Format)
		assert.True(t, cfg.Storage.UseSSL)
	})

	t.Run("Dotenv file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERIALIZER_INDENT=2\n"), 0o600))
		t.Cleanup(func() { os.Unsetenv("SERIALIZER_INDENT") })

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Serializer.Indent)
	})
}
