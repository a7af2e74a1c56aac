package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/tabscope/internal/storage"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Storage StorageConfig
	Log     LogConfig
	Check   CheckConfig
}

// StorageConfig selects the KV backend.
type StorageConfig struct {
	Backend string
	Path    string
}

// CheckConfig tunes the dead tab check.
type CheckConfig struct {
	Concurrency    int
	Timeout        time.Duration
	ExcludeDomains []string `mapstructure:"exclude_domains"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

// Load reads configuration from file and env. Env var overrides use prefix TABSCOPE_.
// A missing config file is not an error.
func Load() (Config, error) {
	v := viper.New()

	dataDir, err := storage.DefaultDataDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.path", filepath.Join(dataDir, "tabscope.db"))
	v.SetDefault("log.level", "warn")
	v.SetDefault("check.concurrency", 8)
	v.SetDefault("check.timeout", "10s")
	v.SetDefault("check.exclude_domains", []string{"github.com", "gitlab.com"})

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TABSCOPE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(dataDir)
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TABSCOPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
