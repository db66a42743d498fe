package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func chTempDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "training.db", cfg.Store.Path)
	assert.Equal(t, "data/carc_codes.csv", cfg.Reference.CARCPath)
	assert.Equal(t, "data/rarc_codes.csv", cfg.Reference.RARCPath)
	assert.False(t, cfg.Parser.StrictClaimReset)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	chTempDir(t)

	// A map rather than a Config literal so unset sections stay absent
	// from the file and keep their defaults.
	fixture := map[string]any{
		"store":  map[string]any{"driver": "postgres", "database_url": "postgres://localhost/denials"},
		"parser": map[string]any{"strict_claim_reset": true},
		"log":    map[string]any{"level": "debug", "format": "console"},
		"server": map[string]any{"port": 9090},
	}
	data, err := yaml.Marshal(fixture)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile("config.yaml", data, 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/denials", cfg.Store.DatabaseURL)
	assert.True(t, cfg.Parser.StrictClaimReset)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, "data/carc_codes.csv", cfg.Reference.CARCPath)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chTempDir(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(".", "config.yaml"), []byte(yaml), 0644))

	t.Setenv("DENIALAUDIT_STORE_DRIVER", "postgres")
	t.Setenv("DENIALAUDIT_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chTempDir(t)

	t.Setenv("DENIALAUDIT_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestStoreDSN(t *testing.T) {
	s := StoreConfig{Driver: "sqlite", Path: "training.db", DatabaseURL: "postgres://x"}
	assert.Equal(t, "training.db", s.DSN())

	s.Driver = "postgres"
	assert.Equal(t, "postgres://x", s.DSN())
}

func TestValidatePostgresNeedsURL(t *testing.T) {
	cfg := &Config{}
	cfg.Store.Driver = "postgres"

	err := cfg.Validate("audit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")

	cfg.Store.DatabaseURL = "postgres://localhost/denials"
	assert.NoError(t, cfg.Validate("audit"))
}

func TestValidateServePort(t *testing.T) {
	cfg := &Config{}
	cfg.Store.Driver = "sqlite"

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")

	cfg.Server.Port = 8080
	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
