// Package config provides configuration management for Vantage.
//
// Settings come from a YAML file, then environment overrides, then
// defaults for anything still unset.
//
// Config file locations (priority order):
//  1. $VANTAGE_CONFIG
//  2. ./vantage.yaml
//  3. $XDG_CONFIG_HOME/vantage/config.yaml
//  4. ~/.config/vantage/config.yaml
//  5. /etc/vantage/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Accepted log formats
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// Fallback seed modes, matching the fallback package's seeder names
const (
	FallbackMemoize    = "memoize"
	FallbackRegenerate = "regenerate"
)

// ErrInvalid is returned by Validate
var ErrInvalid = errors.New("invalid config")

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides are applied either way.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		if err := cfg.ApplyEnv(); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, path, err
	}
	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from VANTAGE_* environment variables. Unset
// variables leave the current value alone.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: ServerConfig{
			Addr:            ":3000",
			ReadTimeout:     Duration(10 * time.Second),
			IdleTimeout:     Duration(60 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Database: DatabaseConfig{Path: "./vantage.db"},
		Fallback: FallbackConfig{
			Mode:      FallbackMemoize,
			SeedTTL:   Duration(30 * 24 * time.Hour),
			CacheSize: 4096,
		},
		Log:      LogConfig{Level: "info", Format: LogFormatConsole},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = def.Server.ReadTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = def.Server.IdleTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if c.Database.Path == "" {
		c.Database.Path = def.Database.Path
	}
	if c.Fallback.Mode == "" {
		c.Fallback.Mode = def.Fallback.Mode
	}
	if c.Fallback.SeedTTL == 0 {
		c.Fallback.SeedTTL = def.Fallback.SeedTTL
	}
	if c.Fallback.CacheSize == 0 {
		c.Fallback.CacheSize = def.Fallback.CacheSize
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}

// Validate reports settings that cannot be used
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Server.Addr) == "" {
		problems = append(problems, "server.addr is empty")
	}
	for name, d := range map[string]Duration{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.idle_timeout":     c.Server.IdleTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"fallback.seed_ttl":       c.Fallback.SeedTTL,
	} {
		if d < 0 {
			problems = append(problems, fmt.Sprintf("%s is negative", name))
		}
	}

	switch c.Fallback.Mode {
	case FallbackMemoize, FallbackRegenerate:
	default:
		problems = append(problems, fmt.Sprintf("fallback.mode %q is not %s or %s", c.Fallback.Mode, FallbackMemoize, FallbackRegenerate))
	}
	if c.Fallback.CacheSize < 0 {
		problems = append(problems, "fallback.cache_size is negative")
	}

	for axis, literals := range c.Classifier {
		for literal, category := range literals {
			if !category.Valid() {
				problems = append(problems, fmt.Sprintf("classifier.%s.%s: unknown category %q", axis, literal, category))
			}
		}
	}

	switch c.Log.Format {
	case LogFormatJSON, LogFormatConsole:
	default:
		problems = append(problems, fmt.Sprintf("log.format %q is not %s or %s", c.Log.Format, LogFormatJSON, LogFormatConsole))
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	catalog := c.Catalog.Path
	if catalog == "" {
		catalog = "(built-in)"
	}
	return fmt.Sprintf("Addr: %s, Database: %s, Catalog: %s, Fallback: %s, Log: %s/%s",
		c.Server.Addr, c.Database.Path, catalog, c.Fallback.Mode, c.Log.Level, c.Log.Format)
}
