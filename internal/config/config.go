// Package config loads settings from an optional YAML file and
// EPICEVENTS_* environment variables. The JWT secret and the database
// DSN have no defaults and must be provided.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Auth     AuthConfig     `mapstructure:"auth"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type AuthConfig struct {
	Secret          string `mapstructure:"secret"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`
}

// TokenTTL returns the session token lifetime.
func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type SessionConfig struct {
	// Path is where the session token file lives.
	Path string `mapstructure:"path"`
}

type MetricsConfig struct {
	// Path is the textfile-collector target; empty disables the flush.
	Path string `mapstructure:"path"`
}

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "epicevents"), nil
}

// Load reads configuration. An explicit file path is required to exist;
// otherwise the optional config.yaml in the user configuration
// directory is merged when present. Environment variables override
// file values.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Defaults also register the keys so AutomaticEnv can see them.
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl_minutes", 30)
	v.SetDefault("database.dsn", "")
	v.SetDefault("session.path", "")
	v.SetDefault("metrics.path", "")

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if dir, err := Dir(); err == nil {
		v.SetConfigName("config")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("EPICEVENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Session.Path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, fmt.Errorf("resolve session path: %w", err)
		}
		cfg.Session.Path = filepath.Join(dir, "session.json")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("config: auth.secret is required")
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return errors.New("config: auth.token_ttl_minutes must be positive")
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("config: database.dsn is required")
	}
	return nil
}
