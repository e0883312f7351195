package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, ProviderAnthropic, cfg.AI.Provider)
	assert.Equal(t, 8000, cfg.AI.MaxTokens)
	assert.Equal(t, 2*time.Hour, cfg.Session.IdleTimeout)
	assert.Empty(t, cfg.Audit.Driver)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
ai:
  provider: openai
  model: gpt-4o
  timeout: 90s
audit:
  driver: postgres
  host: db
  port: 5432
  user: audit
  password: "p@ss"
  name: analyzer
`), 0o600))
	t.Setenv("ANALYZER_PORT", "9100")
	t.Setenv("ANALYZER_AI_MODEL", "gpt-4.1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "gpt-4.1", cfg.AI.Model)
	assert.Equal(t, 90*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "postgres://audit:p%40ss@db:5432/analyzer?sslmode=disable", cfg.PostgresDSN())
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ANALYZER_AI_PROVIDER=gemini\n"), 0o600))
	t.Setenv("ANALYZER_AI_PROVIDER", "")
	os.Unsetenv("ANALYZER_AI_PROVIDER")

	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cfg := Default()
	cfg.AI.Provider = "cohere"
	assert.ErrorContains(t, cfg.Validate(), "ai.provider")

	cfg = Default()
	cfg.Audit.Driver = "sqlite"
	assert.ErrorContains(t, cfg.Validate(), "audit.driver")

	cfg = Default()
	cfg.Minio.Enabled = true
	assert.ErrorContains(t, cfg.Validate(), "minio.endpoint")

	cfg = Default()
	cfg.AI.Provider = " OpenAI "
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
}

func TestApplyEnvRejectsBadPort(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		if k == "ANALYZER_PORT" {
			return "eighty", true
		}
		return "", false
	})
	assert.ErrorContains(t, err, "ANALYZER_PORT")
}

func TestMySQLDSN(t *testing.T) {
	cfg := Default()
	cfg.Audit.User, cfg.Audit.Password = "root", "secret"
	cfg.Audit.Host, cfg.Audit.Port, cfg.Audit.Name = "localhost", 3306, "analyzer"
	assert.Equal(t, "root:secret@tcp(localhost:3306)/analyzer?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
}
