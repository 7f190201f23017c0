package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjiggidy/adderlib/pkg/config"
)

func TestLoad(t *testing.T) {
	t.Setenv("ADDER_TEST_PASSWORD", "hunter2")

	path := filepath.Join(t.TempDir(), "adder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server: aim.local:8080
username: admin
password: ${ADDER_TEST_PASSWORD}
timeout: 2s
log:
  level: debug
  format: json
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "aim.local:8080", cfg.Server)
	assert.Equal(t, 8, cfg.APIVersion, "default kept")
	assert.Equal(t, "hunter2", cfg.Password)

	d, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)
}

func TestLoad_Missing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: load")
}

func TestParse_Invalid(t *testing.T) {
	_, err := config.Parse([]byte("server: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "no server", mutate: func(c *config.Config) {}, wantErr: "server is required"},
		{name: "fixtures need no server", mutate: func(c *config.Config) { c.Fixtures.Enabled = true }},
		{name: "bad version", mutate: func(c *config.Config) { c.Server = "aim"; c.APIVersion = 0 }, wantErr: "api_version"},
		{name: "bad timeout", mutate: func(c *config.Config) { c.Server = "aim"; c.Timeout = "soon" }, wantErr: "timeout"},
		{name: "negative timeout", mutate: func(c *config.Config) { c.Server = "aim"; c.Timeout = "-1s" }, wantErr: "timeout must be positive"},
		{name: "bad level", mutate: func(c *config.Config) { c.Server = "aim"; c.Log.Level = "loud" }, wantErr: "log"},
		{name: "bad format", mutate: func(c *config.Config) { c.Server = "aim"; c.Log.Format = "xml" }, wantErr: "unknown format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	cfg := config.Default()
	cfg.Log = config.LogConfig{Level: "warn", Format: "json"}

	log, err := cfg.NewLogger(&buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}
