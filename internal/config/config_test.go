package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Font:         "goregular",
		Scale:        1.0,
		Timeout:      500 * time.Millisecond,
		PollInterval: 50 * time.Millisecond,
		CanvasLength: 750,
		LogLevel:     "info",
	}, c)
}

func TestConfigFile(t *testing.T) {
	path := writeConfig(t, `
font: gomonobold
scale: 1.2
timeout: 2s
poll_interval: 100ms
canvas_length: 600
log_level: debug
serial: J9Z123456
`)
	c, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "gomonobold", c.Font)
	assert.Equal(t, 1.2, c.Scale)
	assert.Equal(t, 2*time.Second, c.Timeout)
	assert.Equal(t, 100*time.Millisecond, c.PollInterval)
	assert.Equal(t, 600, c.CanvasLength)
	assert.Equal(t, "J9Z123456", c.Serial)

	l, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "scale: 1.2\n")
	t.Setenv("QLPRINT_SCALE", "0.8")
	t.Setenv("QLPRINT_POLL_INTERVAL", "20ms")

	c, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, 0.8, c.Scale)
	assert.Equal(t, 20*time.Millisecond, c.PollInterval)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSearchPathInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "qlprint.yaml"), []byte("font: gobold\n"), 0o600))

	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "gobold", c.Font)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Font:         "goregular",
		Scale:        1,
		Timeout:      time.Second,
		PollInterval: time.Millisecond,
		CanvasLength: 750,
		LogLevel:     "warn",
	}
	assert.NoError(t, valid.Validate())

	for name, mutate := range map[string]func(*Config){
		"font":          func(c *Config) { c.Font = "" },
		"scale":         func(c *Config) { c.Scale = 0 },
		"timeout":       func(c *Config) { c.Timeout = -time.Second },
		"poll interval": func(c *Config) { c.PollInterval = 0 },
		"canvas length": func(c *Config) { c.CanvasLength = -1 },
		"log level":     func(c *Config) { c.LogLevel = "loud" },
	} {
		c := valid
		mutate(&c)
		assert.ErrorIs(t, c.Validate(), ErrInvalidConfig, name)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "canvas_length: 0\n")
	_, err := Load(New(), path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
