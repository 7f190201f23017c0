package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hell…", truncate("hello world", 5))
	assert.Equal(t, "hello world", truncate("hello\nworld", 20))
	assert.Equal(t, "日本…", truncate("日本語のテキスト", 5), "wide runes count two cells")
	assert.Empty(t, truncate("", 5))
}

func TestYesNoAndOrDash(t *testing.T) {
	assert.Equal(t, "yes", yesNo(true))
	assert.Equal(t, "no", yesNo(false))
	assert.Equal(t, "-", orDash(" "))
	assert.Equal(t, "x", orDash("x"))
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
	require.NoError(t, loadDotEnv(""))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADDER_TEST_DOTENV=from-file\n"), 0o600))
	t.Setenv("ADDER_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("ADDER_TEST_DOTENV"))

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("ADDER_TEST_DOTENV"))
}

func TestResolveConfigPath(t *testing.T) {
	assert.Equal(t, "custom.yaml", resolveConfigPath("custom.yaml"))

	t.Chdir(t.TempDir())
	assert.Empty(t, resolveConfigPath(""))

	require.NoError(t, os.WriteFile(defaultConfigFile, []byte("server: aim\n"), 0o600))
	assert.Equal(t, defaultConfigFile, resolveConfigPath(""))
}

func TestParseArgs(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(discard{})
	force := fs.Bool("force", false, "")

	rest, err := parseArgs(fs, []string{"-force", "10", "11"}, 1, -1)
	require.NoError(t, err)
	assert.True(t, *force)
	assert.Equal(t, []string{"10", "11"}, rest)

	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(discard{})
	_, err = parseArgs(fs, []string{"a", "b", "c"}, 1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong number of arguments")
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
