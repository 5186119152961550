// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Default values.
const (
	DefaultPort           = "3000"
	DefaultDBPath         = "./data/todos.db"
	DefaultAPIURL         = "http://localhost:3000/api"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultRequestTimeout = "10s"
)

// Config holds the configuration shared by the server and the clients.
type Config struct {
	// Server
	Port   string `toml:"port" yaml:"port"`
	DBPath string `toml:"db_path" yaml:"db_path"`

	// Client
	APIURL         string `toml:"api_url" yaml:"api_url"`
	RequestTimeout string `toml:"request_timeout" yaml:"request_timeout"`

	// Logging
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`

	// Timeout is RequestTimeout parsed (computed)
	Timeout time.Duration `toml:"-" yaml:"-"`

	// File is the config file that was loaded, if any (computed)
	File string `toml:"-" yaml:"-"`
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. Config file (path argument, $TODO_CONFIG, or todoapp.toml / todoapp.yaml in the current directory)
// 3. Environment variables
//
// CLI flags are applied by the caller on top of the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if path == "" {
		path = os.Getenv("TODO_CONFIG")
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.File = path
	}

	loadFromEnv(cfg)

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates the config and computes derived values. Call it again
// after overriding fields.
func (c *Config) Finalize() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q: %w", c.Port, err)
	}

	timeout, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return fmt.Errorf("invalid request_timeout %q: %w", c.RequestTimeout, err)
	}
	if timeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	c.Timeout = timeout

	c.APIURL = strings.TrimRight(c.APIURL, "/")
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	return nil
}

// Addr returns the listen address for the server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Port = DefaultPort
	cfg.DBPath = DefaultDBPath
	cfg.APIURL = DefaultAPIURL
	cfg.RequestTimeout = DefaultRequestTimeout
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// findConfigFile looks for a config file in the current directory.
func findConfigFile() string {
	names := []string{"todoapp.toml", ".todoapp.toml", "todoapp.yaml", "todoapp.yml", ".todoapp.yaml"}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// loadConfigFile decodes TOML or YAML depending on the file extension.
func loadConfigFile(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.DecodeFile(path, cfg)
		return err
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", filepath.Ext(path))
	}
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TODO_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("TODO_REQUEST_TIMEOUT"); v != "" {
		cfg.RequestTimeout = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
