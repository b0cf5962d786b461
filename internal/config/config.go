// Package config loads formkit settings from defaults, an optional YAML file,
// FORMKIT_* environment variables and bound command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. FORMKIT_BASE_URL.
const EnvPrefix = "FORMKIT"

// Config is the resolved configuration.
type Config struct {
	BaseURL   string          `mapstructure:"base_url"`
	Timeout   time.Duration   `mapstructure:"timeout"`
	APIKey    string          `mapstructure:"api_key"`
	Table     TableConfig     `mapstructure:"table"`
	Prefs     PrefsConfig     `mapstructure:"prefs"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

// TableConfig configures the data table.
type TableConfig struct {
	Endpoint     string        `mapstructure:"endpoint"`
	Mode         string        `mapstructure:"mode"`
	PageSize     int           `mapstructure:"page_size"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Debounce     time.Duration `mapstructure:"debounce"`
	ColumnsFile  string        `mapstructure:"columns_file"`
}

// ServerSide reports whether search, sort and paging run on the server.
func (t TableConfig) ServerSide() bool {
	return strings.EqualFold(t.Mode, "server")
}

// PrefsConfig locates the preference store. An empty Path keeps preferences
// in memory.
type PrefsConfig struct {
	Path string `mapstructure:"path"`
}

// RateLimitConfig configures the advisory registration limiter.
type RateLimitConfig struct {
	Window      time.Duration `mapstructure:"window"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NewViper returns a viper instance carrying defaults and environment
// bindings. Callers may bind flags on it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("base_url", "http://localhost:3000")
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("api_key", "")
	v.SetDefault("table.endpoint", "/api/users")
	v.SetDefault("table.mode", "client")
	v.SetDefault("table.page_size", 10)
	v.SetDefault("table.poll_interval", time.Duration(0))
	v.SetDefault("table.debounce", 300*time.Millisecond)
	v.SetDefault("table.columns_file", "")
	v.SetDefault("prefs.path", "")
	v.SetDefault("rate_limit.window", 15*time.Minute)
	v.SetDefault("rate_limit.max_attempts", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (or $HOME/.formkit.yaml when path is empty and the file
// exists) into v and decodes the result.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = NewViper()
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".formkit")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the components cannot run with.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: base_url %q must be an absolute http(s) URL", c.BaseURL)
	}
	if c.Timeout < 0 {
		return errors.New("config: timeout must not be negative")
	}
	switch strings.ToLower(c.Table.Mode) {
	case "client", "server":
	default:
		return fmt.Errorf("config: table.mode %q must be client or server", c.Table.Mode)
	}
	if c.Table.PageSize <= 0 {
		return errors.New("config: table.page_size must be positive")
	}
	if c.Table.PollInterval < 0 || c.Table.Debounce < 0 {
		return errors.New("config: table intervals must not be negative")
	}
	if c.RateLimit.MaxAttempts <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("config: rate_limit needs a positive window and max_attempts")
	}
	return nil
}
