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
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, BackendNative, cfg.Backend)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, "captures.db", filepath.Base(cfg.Store))
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "dwf.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
backend: sim
device: bench
poll_interval: 5ms
metrics_addr: ":9100"
`), 0o644))

	t.Setenv("DWF_DEVICE", "1")
	t.Setenv("DWF_LOG_LEVEL", "debug")

	cfg, err := Load(New(), file)
	require.NoError(t, err)
	assert.Equal(t, BackendSim, cfg.Backend)
	assert.Equal(t, "1", cfg.Device, "environment overrides the file")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
}

func TestLoadSearchPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("dwf.yaml", []byte("backend: sim\n"), 0o644))

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, BackendSim, cfg.Backend)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{Backend: BackendSim, LogLevel: "info", PollInterval: time.Millisecond}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.Backend = "usb" }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"poll interval", func(c *Config) { c.PollInterval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
