package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config holds the service configuration.
type Config struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	CacheTTL      time.Duration `yaml:"cache_ttl"`
	ErrorCacheTTL time.Duration `yaml:"error_cache_ttl"`
	MaxCacheSize  int           `yaml:"max_cache_size"` // per cache

	RateLimitWindow      time.Duration `yaml:"rate_limit_window"`
	RateLimitMaxRequests int           `yaml:"rate_limit_max_requests"`

	HTTPTimeout    time.Duration `yaml:"http_timeout"`
	MaxFileSize    int64         `yaml:"max_file_size"`
	MaxConnections int           `yaml:"max_connections"`
	GitHubToken    string        `yaml:"github_token"`

	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Host:                 "127.0.0.1",
		Port:                 3000,
		CacheTTL:             300 * time.Second,
		ErrorCacheTTL:        60 * time.Second,
		MaxCacheSize:         1000,
		RateLimitWindow:      60 * time.Second,
		RateLimitMaxRequests: 30,
		HTTPTimeout:          10 * time.Second,
		MaxFileSize:          1024,
		MaxConnections:       256,
	}
}

// LoadConfig loads the default configuration, overwrites it with the YAML file at path if path is not empty, and applies the environment variable overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		} else if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields for each environment variable that is set. Durations are in seconds.
func (c *Config) applyEnv(getenv func(string) string) error {
	var err error
	if v := getenv("HOST"); v != "" {
		c.Host = v
	}
	if v := getenv("GH_PAT"); v != "" {
		c.GitHubToken = v
	}
	err = multierr.Append(err, envInt(getenv, "PORT", &c.Port))
	err = multierr.Append(err, envInt(getenv, "MAX_CACHE_SIZE", &c.MaxCacheSize))
	err = multierr.Append(err, envInt(getenv, "RATE_LIMIT_MAX_REQUESTS", &c.RateLimitMaxRequests))
	err = multierr.Append(err, envSeconds(getenv, "CACHE_TTL_SECS", &c.CacheTTL))
	err = multierr.Append(err, envSeconds(getenv, "HTTP_TIMEOUT_SECS", &c.HTTPTimeout))
	err = multierr.Append(err, envSeconds(getenv, "ERROR_CACHE_TTL_SECS", &c.ErrorCacheTTL))
	err = multierr.Append(err, envSeconds(getenv, "RATE_LIMIT_WINDOW_SECS", &c.RateLimitWindow))
	return err
}

func envInt(getenv func(string) string, name string, dst *int) error {
	v := getenv(name)
	if v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = i
	return nil
}

func envSeconds(getenv func(string) string, name string, dst *time.Duration) error {
	v := getenv(name)
	if v == "" {
		return nil
	}
	secs, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = time.Duration(secs) * time.Second
	return nil
}

// Addr returns the host:port address to listen on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate returns all configuration errors combined.
func (c Config) Validate() error {
	var err error
	if c.Port < 0 || 65535 < c.Port {
		err = multierr.Append(err, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.CacheTTL <= 0 {
		err = multierr.Append(err, errors.New("cache TTL must be positive"))
	}
	if c.ErrorCacheTTL <= 0 {
		err = multierr.Append(err, errors.New("error cache TTL must be positive"))
	}
	if c.MaxCacheSize <= 0 {
		err = multierr.Append(err, errors.New("max cache size must be positive"))
	}
	if c.RateLimitWindow <= 0 {
		err = multierr.Append(err, errors.New("rate limit window must be positive"))
	}
	if c.RateLimitMaxRequests <= 0 {
		err = multierr.Append(err, errors.New("rate limit max requests must be positive"))
	}
	if c.HTTPTimeout <= 0 {
		err = multierr.Append(err, errors.New("HTTP timeout must be positive"))
	}
	if c.MaxFileSize <= 0 {
		err = multierr.Append(err, errors.New("max file size must be positive"))
	}
	if c.MaxConnections <= 0 {
		err = multierr.Append(err, errors.New("max connections must be positive"))
	}
	return err
}
