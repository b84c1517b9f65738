package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFileWithDefaults(t *testing.T) {
	path := writeConfig(t, `
database_url: postgres://localhost/fleet
depot:
  lat: -26.2041
  lon: 28.0473
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/fleet", cfg.DatabaseURL)
	assert.Equal(t, -26.2041, cfg.Depot.Lat)
	assert.Equal(t, 3, cfg.Planning.Days)
	assert.Equal(t, 2500.0, cfg.Planning.TargetWeightKg)
	assert.Equal(t, 100.0, cfg.Planning.MaxRegionDistanceKm)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
database_url: postgres://localhost/fleet
planning:
  days: 3
`)

	t.Setenv("FLEET_DATABASE_URL", "postgres://prod/fleet")
	t.Setenv("FLEET_PLANNING__DAYS", "5")
	t.Setenv("FLEET_ORS_API_KEY", "test-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://prod/fleet", cfg.DatabaseURL)
	assert.Equal(t, 5, cfg.Planning.Days)
	assert.Equal(t, "test-key", cfg.ORSAPIKey)
}

func TestLoadEnvOnly(t *testing.T) {
	t.Setenv("FLEET_DATABASE_URL", "postgres://localhost/fleet")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/fleet", cfg.DatabaseURL)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	path := writeConfig(t, "planning:\n  days: 2\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
