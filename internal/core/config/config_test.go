package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  name: store-rating
  http:
    host: 0.0.0.0
    port: 9090
log:
  level: debug
  json: true
jwt:
  secret: file-secret
  issuer: idp.local
db:
  driver: sqlite
  dsn: "file:test.db"
redis:
  enabled: true
  addr: 127.0.0.1:6379
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestRead_FileAndDefaults(t *testing.T) {
	c, err := Read(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.Log.JSON)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.True(t, c.Redis.Enabled)

	// defaults
	assert.Equal(t, 8081, c.App.Admin.Port)
	assert.Equal(t, 300, c.Redis.RoleTTLSec)
	assert.Equal(t, 400, c.Limits.Burst)
	assert.Equal(t, int64(1<<20), c.Limits.MaxBodyBytes)
}

func TestRead_EnvOverrides(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "env-secret")
	t.Setenv("APP_DB_DSN", "postgres://env")

	c, err := Read(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "env-secret", c.JWT.Secret)
	assert.Equal(t, "postgres://env", c.DB.DSN)
}

func TestRead_RequiresSecret(t *testing.T) {
	_, err := Read(writeConfig(t, "app:\n  name: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLimits_WithDefaults(t *testing.T) {
	l := Limits{Burst: 5}.WithDefaults()
	assert.Equal(t, 5, l.Burst)
	assert.Equal(t, 200.0, l.RPS)
	assert.Equal(t, int64(300), l.Concurrency)
	assert.Equal(t, int64(1<<20), l.MaxBodyBytes)
	assert.Equal(t, 10, l.TimeoutSec)
}
