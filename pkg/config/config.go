// Package config loads the settings shared by the adder command: the server
// to talk to, credentials, transport timeout, fixture replay, and logging.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTimeout is used when the config leaves timeout empty.
const DefaultTimeout = 5 * time.Second

// Config is the top-level configuration.
type Config struct {
	Server     string        `yaml:"server"`
	APIVersion int           `yaml:"api_version"`
	Username   string        `yaml:"username"`
	Password   string        `yaml:"password"` //nolint:gosec // configuration field, normally ${ADDER_PASSWORD}
	Timeout    string        `yaml:"timeout"`  // Duration string, e.g. "5s".
	Fixtures   FixtureConfig `yaml:"fixtures"`
	Log        LogConfig     `yaml:"log"`
}

// FixtureConfig switches the client to canned replies.
type FixtureConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"` // Empty means the embedded examples.
	Verbose bool   `yaml:"verbose"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default info).
	Format string `yaml:"format"` // text or json (default text).
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		APIVersion: 8,
		Timeout:    DefaultTimeout.String(),
		Log:        LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file on top of Default. Environment variables referenced
// as ${VAR} or $VAR are expanded before parsing so that passwords can live
// in the environment or a .env file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML on top of Default.
func Parse(data []byte) (Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration can be used.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server) == "" && !c.Fixtures.Enabled {
		return fmt.Errorf("config: server is required unless fixtures are enabled")
	}
	if c.APIVersion <= 0 {
		return fmt.Errorf("config: api_version must be positive, got %d", c.APIVersion)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: log: unknown format %q", c.Log.Format)
	}

	return nil
}

// TimeoutDuration parses Timeout, defaulting to DefaultTimeout.
func (c Config) TimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(c.Timeout) == "" {
		return DefaultTimeout, nil
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config: timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: timeout must be positive, got %s", d)
	}

	return d, nil
}

// NewLogger builds a slog logger writing to w as the log section describes.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}

	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: log: %w", err)
	}

	return level, nil
}
