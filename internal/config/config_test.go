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
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db.local"
port = 5432
user = "svc"
password = "secret"
dbname = "bookings"

[auth]
jwt_secret = "s3cret"

[scheduler]
expiration_schedule = "@every 30s"
run_on_start = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "@every 30s", cfg.Scheduler.ExpirationSchedule)
	assert.True(t, cfg.Scheduler.RunOnStart)
	assert.Equal(t,
		"host=db.local port=5432 user=svc password=secret dbname=bookings sslmode=disable",
		cfg.Database.DSN())
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[auth]
jwt_secret = "s3cret"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "@every 1m", cfg.Scheduler.ExpirationSchedule)
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 8080
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EventsRequireURL(t *testing.T) {
	path := writeConfig(t, `
[auth]
jwt_secret = "s3cret"

[events]
enabled = true
queue = "booking.events"
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
