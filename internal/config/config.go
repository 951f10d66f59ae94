// Package config loads client configuration from defaults, an optional YAML
// file, EVENTDESK_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// EVENTDESK_API_BASE_URL.
const EnvPrefix = "EVENTDESK"

// Config is the full client configuration.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Viewer ViewerConfig `mapstructure:"viewer"`
	Log    LogConfig    `mapstructure:"log"`
}

// APIConfig describes how to reach the platform API.
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Token     string        `mapstructure:"token"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"` // requests per second, 0 disables
	Burst     int           `mapstructure:"burst"`
}

// ViewerConfig identifies the current user. The id is configured explicitly
// rather than read out of the token.
type ViewerConfig struct {
	UserID string `mapstructure:"user_id"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Authenticated reports whether a credential is configured.
func (c *Config) Authenticated() bool {
	return strings.TrimSpace(c.API.Token) != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:44445")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.rate_limit", 0.0)
	v.SetDefault("api.burst", 5)
	v.SetDefault("viewer.user_id", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// RegisterFlags adds the flags that may override configuration values.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file (default: ./config/eventdesk.yaml if present)")
	fs.String("base-url", "", "platform API base URL")
	fs.String("token", "", "bearer token for the platform API")
	fs.String("user-id", "", "id of the current viewer")
	fs.Duration("timeout", 0, "per-request timeout")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-format", "", "log format (text, json)")
}

var flagKeys = map[string]string{
	"base-url":   "api.base_url",
	"token":      "api.token",
	"user-id":    "viewer.user_id",
	"timeout":    "api.timeout",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// LoadConfig builds a viper instance from defaults, config file, env and the
// given (already parsed) flags. fs may be nil.
func LoadConfig(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			explicit = f.Value.String()
		}
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath("./config")
		v.SetConfigName("eventdesk")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return v, nil
}

// ParseConfig decodes the viper instance into a validated Config.
func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// Load is LoadConfig followed by ParseConfig.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v, err := LoadConfig(fs)
	if err != nil {
		return nil, err
	}
	return ParseConfig(v)
}

// Validate checks values that viper cannot type-check.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must be an http(s) URL (got %q)", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be > 0 (got %s)", c.API.Timeout)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must be >= 0 (got %v)", c.API.RateLimit)
	}
	if c.API.RateLimit > 0 && c.API.Burst < 1 {
		return fmt.Errorf("api.burst must be >= 1 when rate limiting (got %d)", c.API.Burst)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}
	return nil
}
