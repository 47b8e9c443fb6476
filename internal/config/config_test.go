package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_ENV", "missing")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, 200, cfg.Session.MaxChat)
	assert.Equal(t, 80*time.Second, cfg.Game.Draw)
	assert.Equal(t, 3, cfg.Core().Game.ThemeChoices)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	yaml := `
mode: debug
port: 9000
session:
  max_chat: 50
  empty_grace: 10s
game:
  draw: 60s
  max_rounds: 4
identity:
  jwt_secret: shh
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), []byte(yaml), 0o644))
	t.Chdir(dir)
	t.Setenv("CONFIG_ENV", "test")
	t.Setenv("HANGOUT_PORT", "9100")
	t.Setenv("HANGOUT_GAME_ANSWER", "2s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9100, cfg.Port, "env wins over the file")
	assert.Equal(t, 50, cfg.Session.MaxChat)
	assert.Equal(t, 10*time.Second, cfg.Session.EmptyGrace)
	assert.Equal(t, 60*time.Second, cfg.Game.Draw)
	assert.Equal(t, 2*time.Second, cfg.Game.Answer)
	assert.Equal(t, 4, cfg.Core().Game.MaxRounds)
	assert.Equal(t, "shh", cfg.Identity.JWTSecret)
	assert.Equal(t, 10000, cfg.Session.MaxStrokes, "unset keys keep defaults")
}
