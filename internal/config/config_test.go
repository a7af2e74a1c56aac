package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikbrunner/tabscope/internal/config"
	"gotest.tools/v3/assert"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TABSCOPE_CONFIG", "")

	cfg, err := config.Load()
	assert.NilError(t, err)
	assert.Equal(t, cfg.Storage.Backend, "sqlite")
	assert.Equal(t, cfg.Storage.Path, filepath.Join(home, ".config", "tabscope", "tabscope.db"))
	assert.Equal(t, cfg.Log.Level, "warn")
	assert.Equal(t, cfg.Check.Concurrency, 8)
	assert.Equal(t, cfg.Check.Timeout, 10*time.Second)
	assert.DeepEqual(t, cfg.Check.ExcludeDomains, []string{"github.com", "gitlab.com"})
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	cfgPath := filepath.Join(dir, "config.toml")
	content := "[storage]\nbackend = \"json\"\npath = \"/tmp/tabscope.json\"\n" +
		"[check]\ntimeout = \"3s\"\nexclude_domains = [\"intranet.local\"]\n"
	assert.NilError(t, os.WriteFile(cfgPath, []byte(content), 0644))

	t.Setenv("TABSCOPE_CONFIG", cfgPath)
	t.Setenv("TABSCOPE_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	assert.NilError(t, err)
	assert.Equal(t, cfg.Storage.Backend, "json")
	assert.Equal(t, cfg.Storage.Path, "/tmp/tabscope.json")
	assert.Equal(t, cfg.Log.Level, "debug")
	assert.Equal(t, cfg.Check.Timeout, 3*time.Second)
	assert.DeepEqual(t, cfg.Check.ExcludeDomains, []string{"intranet.local"})
}
