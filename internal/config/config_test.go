package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serialseq/internal/core/serial"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.True(t, cfg.App.Development())
	assert.Equal(t, 5*time.Second, cfg.Database.LockTimeout)
	assert.True(t, cfg.Pebble.Sync)

	f, err := cfg.Serial.Formatting()
	require.NoError(t, err)
	want := serial.DefaultConfig()
	want.Location = time.UTC
	assert.Equal(t, want, f)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("SERIALSEQ_SERIAL_SEPARATOR", "_")
	t.Setenv("SERIALSEQ_SERIAL_NUMBER_LENGTH", "4")
	t.Setenv("SERIALSEQ_SERIAL_YEAR_LENGTH", "4")
	t.Setenv("SERIALSEQ_DATABASE_LOCK_TIMEOUT", "250ms")
	t.Setenv("SERIALSEQ_APP_PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Database.TxOptions().LockTimeout)

	f, err := cfg.Serial.Formatting()
	require.NoError(t, err)
	assert.Equal(t, "INV_022024_0007", f.Format("INV", 2024, 2, 7, ""))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serialseq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: production
database:
  url: postgres://localhost/serials
  max_conns: 5
serial:
  prefix_separator: ":"
  timezone: Europe/Berlin
  prefix_expr: '"HQ"'
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.App.Development())
	assert.Equal(t, int32(5), cfg.Database.Pool().MaxConns)
	assert.Equal(t, "postgres://localhost/serials", cfg.Database.Pool().DSN)
	assert.Equal(t, `"HQ"`, cfg.Serial.PrefixExpr)

	f, err := cfg.Serial.Formatting()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", f.Location.String())
	assert.Equal(t, "HQ:INV-0224-000001", f.Format("INV", 2024, 2, 1, "HQ"))
}

func TestLoad_ConfigFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  port: \"7000\"\n"), 0o600))
	t.Setenv("SERIALSEQ_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.App.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFormatting_BadTimezone(t *testing.T) {
	_, err := SerialConfig{Timezone: "Mars/Olympus"}.Formatting()
	assert.Error(t, err)
}
