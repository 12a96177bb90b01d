package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadConfig_DefaultsWithSecretFromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("MOVIES_AUTH_JWT_SECRET", "0123456789abcdef0123")

	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "starwars.db", cfg.Database.Path)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "https://www.swapi.tech/api", cfg.Swapi.BaseURL)
	assert.Equal(t, 3, cfg.Swapi.Retry.MaxAttempts)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_FileAndEnvPrecedence(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  type: postgres
  host: db.internal
  name: catalog
server:
  address: ":9000"
auth:
  jwt_secret: from-file-0123456789
logging:
  level: debug
  format: text
swapi:
  timeout: 5s
`), 0o600))
	t.Setenv("MOVIES_SERVER_ADDRESS", ":9100")
	t.Setenv("DATABASE_URL", "postgresql://u:p@db:5432/catalog")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "postgresql://u:p@db:5432/catalog", cfg.Database.URL)
	assert.Equal(t, ":9100", cfg.Server.Address, "environment wins over the file")
	assert.Equal(t, "from-file-0123456789", cfg.Auth.JWTSecret)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5*time.Second, cfg.Swapi.Timeout)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	chdirTemp(t)

	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"short secret", map[string]string{"MOVIES_AUTH_JWT_SECRET": "short"}},
		{"unknown database", map[string]string{"MOVIES_AUTH_JWT_SECRET": "0123456789abcdef", "MOVIES_DATABASE_TYPE": "oracle"}},
		{"bad log level", map[string]string{"MOVIES_AUTH_JWT_SECRET": "0123456789abcdef", "MOVIES_LOGGING_LEVEL": "loud"}},
		{"seed without credentials", map[string]string{"MOVIES_AUTH_JWT_SECRET": "0123456789abcdef", "MOVIES_AUTH_SEED_ENABLED": "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig("")
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigOrDefault_FallsBack(t *testing.T) {
	chdirTemp(t)

	cfg := LoadConfigOrDefault("")

	require.NotNil(t, cfg)
	assert.Equal(t, "sqlite", cfg.Database.Type)
}
