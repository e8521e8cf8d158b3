package utils

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig controls the Fiber listener.
type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    string `yaml:"port"`
	Prefork bool   `yaml:"prefork"`
}

// BackendConfig describes the origin the page fetches its message from.
type BackendConfig struct {
	Origin       string        `yaml:"origin"`
	Path         string        `yaml:"path"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// PageConfig holds the fixed copy of the rendered page.
type PageConfig struct {
	Title   string `yaml:"title"`
	Heading string `yaml:"heading"`
}

type LoggerConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type CacheConfig struct {
	RedisHost   string `yaml:"redis_host"`
	RateLimitDB int    `yaml:"rate_limit_db"`
	StatsDB     int    `yaml:"stats_db"`
}

type RateLimiterConfig struct {
	EnableUserLimiter bool          `yaml:"enable_user_limiter"`
	UserLimit         int           `yaml:"user_limit"`
	Interval          time.Duration `yaml:"interval"`
}

// Config is the root of config.yaml.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Backend     BackendConfig     `yaml:"backend"`
	Page        PageConfig        `yaml:"page"`
	Logger      LoggerConfig      `yaml:"logger"`
	Cache       CacheConfig       `yaml:"cache"`
	RateLimiter RateLimiterConfig `yaml:"rate_limiter"`
}

// AppConfig is the last configuration returned by LoadConfig.
var AppConfig Config

var configMu sync.RWMutex

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	var cfg Config
	cfg.Server.Port = ":3000"
	cfg.Backend.Origin = "http://127.0.0.1:5000"
	cfg.Backend.Path = "/"
	cfg.Backend.Timeout = 10 * time.Second
	cfg.Backend.MaxBodyBytes = 1 << 20
	cfg.Page.Title = "Hello"
	cfg.Page.Heading = "Message from Flask"
	cfg.Logger.File = "logs/hellopage.log"
	cfg.Logger.Level = "info"
	cfg.Logger.MaxSizeMB = 10
	cfg.Logger.MaxBackups = 3
	cfg.Logger.MaxAgeDays = 28
	cfg.Logger.Compress = true
	cfg.Cache.StatsDB = 1
	cfg.RateLimiter.Interval = time.Minute
	return cfg
}

// LoadConfig reads the file named by CONFIG_PATH (default config.yaml).
// It panics on invalid values.
func LoadConfig() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom reads and validates the config at path. A missing file
// yields the defaults.
func LoadConfigFrom(path string) Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			panic(fmt.Sprintf("invalid config %s: %v", path, err))
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		panic(fmt.Sprintf("cannot read config %s: %v", path, err))
	}

	if v := os.Getenv("BACKEND_ORIGIN"); v != "" {
		cfg.Backend.Origin = v
	}

	if err := validateConfig(cfg); err != nil {
		panic(err.Error())
	}

	configMu.Lock()
	AppConfig = cfg
	configMu.Unlock()
	return cfg
}

// GetConfig returns the currently loaded configuration.
func GetConfig() Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return AppConfig
}

func validateConfig(cfg Config) error {
	if cfg.Backend.Origin == "" {
		return fmt.Errorf("backend.origin is empty")
	}
	u, err := url.Parse(cfg.Backend.Origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend.origin must be an http or https URL, got %q", cfg.Backend.Origin)
	}
	if cfg.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive")
	}
	if cfg.Backend.MaxBodyBytes <= 0 {
		return fmt.Errorf("backend.max_body_bytes must be positive")
	}
	if cfg.RateLimiter.UserLimit < 0 {
		return fmt.Errorf("rate_limiter.user_limit must not be negative")
	}
	if cfg.RateLimiter.UserLimit > 0 && cfg.RateLimiter.Interval <= 0 {
		return fmt.Errorf("rate_limiter.interval must be positive")
	}
	return nil
}
