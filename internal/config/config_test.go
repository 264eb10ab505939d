package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5.0, cfg.RateLimit)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Empty(t, cfg.GitLab.Token)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9000
log_level: debug
gitlab:
  api_url: https://gitlab.example.com/api/v4
  token: from-file
reports:
  base_url: https://reports.example.com
`), 0o644))

	t.Setenv("PULSE_GITLAB_TOKEN", "from-env")
	t.Setenv("PULSE_DATABASE_URL", "postgres://localhost/pulse")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 8080, "")
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--port", "9100"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "from-env", cfg.GitLab.Token)
	assert.Equal(t, "https://gitlab.example.com/api/v4", cfg.GitLab.APIURL)
	assert.Equal(t, "https://reports.example.com", cfg.Reports.BaseURL)
	assert.Equal(t, "postgres://localhost/pulse", cfg.DatabaseURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestValidate(t *testing.T) {
	cfg := Config{Port: 0, RateLimit: -1, Concurrency: -2}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port 0")
	assert.Contains(t, err.Error(), "rate_limit")
	assert.Contains(t, err.Error(), "concurrency")

	assert.NoError(t, (&Config{Port: 8080}).Validate())
}
