// Package config loads coursecal settings from defaults, an optional config file,
// a .env file and COURSECAL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "COURSECAL"

// Config holds runtime settings shared by the CLI, the terminal UI and the backend.
type Config struct {
	// Endpoint is the GraphQL endpoint the search client posts to.
	Endpoint string `mapstructure:"endpoint"`
	// Listen is the address the backend binds to.
	Listen string `mapstructure:"listen"`
	// ExplorerURL is the Course Explorer schedule root.
	ExplorerURL string        `mapstructure:"explorer_url"`
	Workers     int           `mapstructure:"workers"`
	// Timeout bounds a whole search; 0 means no deadline.
	Timeout     time.Duration `mapstructure:"timeout"`
	Cache       CacheConfig   `mapstructure:"cache"`
	Log         LogConfig     `mapstructure:"log"`
}

// CacheConfig controls the backend's raw document cache.
type CacheConfig struct {
	Backend  string        `mapstructure:"backend"` // "file" or "sqlite"
	Dir      string        `mapstructure:"dir"`
	MaxBytes int64         `mapstructure:"max_bytes"`
	TTL      time.Duration `mapstructure:"ttl"` // lifetime of not-found markers
}

// LogConfig controls the default logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Endpoint:    "http://localhost:5000/graphql",
		Listen:      ":5000",
		ExplorerURL: "http://courses.illinois.edu/cisapp/explorer/schedule/",
		Workers:     8,
		Timeout:     0,
		Cache: CacheConfig{
			Backend:  "file",
			Dir:      "~/.cache/coursecal",
			MaxBytes: 10_000_000,
			TTL:      7 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration. When path is empty, coursecal.yaml (or .json/.toml) is
// looked up in the working directory and ~/.config/coursecal; a missing file is fine.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("coursecal")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "coursecal"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("endpoint", d.Endpoint)
	v.SetDefault("listen", d.Listen)
	v.SetDefault("explorer_url", d.ExplorerURL)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.max_bytes", d.Cache.MaxBytes)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pretty", d.Log.Pretty)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch c.Cache.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("invalid cache backend: %s (must be 'file' or 'sqlite')", c.Cache.Backend)
	}
	return nil
}
