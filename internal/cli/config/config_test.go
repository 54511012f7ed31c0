package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("data-dir", "", "")
	flags.String("database", "", "")
	flags.String("output", "", "")
	flags.BoolP("verbose", "v", false, "")
	return flags
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", newFlags())
	require.NoError(t, err)
	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, DefaultDatabase, cfg.Database)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "naevtools.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: universe\ndatabase: out.db\n"), 0o644))

	cfg, err := Load(path, newFlags())
	require.NoError(t, err)
	assert.Equal(t, "universe", cfg.DataDir)
	assert.Equal(t, "out.db", cfg.Database)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "naevtools.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: from_file.db\n"), 0o644))

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--database", "from_flag.db"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "from_flag.db", cfg.Database)
}

func TestEnvOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "naevtools.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: from_file\n"), 0o644))
	t.Setenv("NAEVTOOLS_DATA_DIR", "from_env")

	cfg, err := Load(path, newFlags())
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.DataDir)
}

func TestUnparseableConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "naevtools.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\tnot yaml"), 0o644))

	_, err := Load(path, newFlags())
	assert.Error(t, err)
}

func TestFromContextFallback(t *testing.T) {
	cfg := FromContext(context.Background())
	assert.Equal(t, DefaultDataDir, cfg.DataDir)

	stored := &Config{DataDir: "elsewhere"}
	got := FromContext(WithConfig(context.Background(), stored))
	assert.Same(t, stored, got)
}

func TestGetLoggerFallback(t *testing.T) {
	logger := GetLogger(context.Background())
	require.NotNil(t, logger)
}
