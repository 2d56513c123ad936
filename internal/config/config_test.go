package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, StorageMemory, cfg.Storage)
	require.Equal(t, []string{"*"}, cfg.CorsOrigins)
	require.Equal(t, "smartsave", cfg.DB.Name)
}

func TestLoadMySQLRequiresCredentials(t *testing.T) {
	t.Setenv("STORAGE", "MySQL")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASS", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("FULL_DSN", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("FULL_DSN", "root:secret@tcp(localhost:3306)/smartsave?parseTime=true")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StorageMySQL, cfg.Storage)
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE", "mongo")

	_, err := Load()
	require.ErrorContains(t, err, "unknown storage")
}
