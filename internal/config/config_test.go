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
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
database:
  path: data/test.db
server:
  port: ":9090"
auth:
  jwt_secret: test-secret
  token_ttl_hours: 48
llm:
  enabled: true
  base_url: http://localhost:11434/v1
  model: llama3
agents:
  mood_alert_floor: 4.5
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "data/test.db", cfg.Database.Path)
	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, int64(48), cfg.Auth.TokenTTLHrs)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.InDelta(t, 4.5, cfg.Agents.MoodAlertFloor, 1e-9)
	assert.False(t, cfg.Notifier.Enabled)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: data/test.db
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, int64(24), cfg.Auth.TokenTTLHrs)
	assert.InDelta(t, 3.0, cfg.Agents.MoodAlertFloor, 1e-9)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
