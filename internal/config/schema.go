package config

import (
	"time"

	"vantage/internal/domain"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Fallback FallbackConfig `yaml:"fallback"`
	Log      LogConfig      `yaml:"log"`

	// Classifier adds or replaces badge literals per axis, e.g.
	// status: {Escalated: danger}
	Classifier map[string]map[string]domain.Category `yaml:"classifier,omitempty"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string   `yaml:"addr" env:"VANTAGE_ADDR"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"` // Zero disables it, as SSE streams are long-lived
	IdleTimeout     Duration `yaml:"idle_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path" env:"VANTAGE_DB_PATH"`
}

// CatalogConfig points at replacement catalog data. Empty paths use the
// built-in catalog and view fixtures.
type CatalogConfig struct {
	Path     string `yaml:"path,omitempty" env:"VANTAGE_CATALOG_PATH"`
	Fixtures string `yaml:"fixtures,omitempty" env:"VANTAGE_FIXTURES_DIR"` // Directory of view fixture YAML files
	Watch    bool   `yaml:"watch,omitempty" env:"VANTAGE_CATALOG_WATCH"`   // Reload on change while serving
}

// FallbackConfig controls how generic fallback content is seeded
type FallbackConfig struct {
	Mode      string   `yaml:"mode" env:"VANTAGE_FALLBACK_MODE"` // memoize or regenerate
	Salt      string   `yaml:"salt,omitempty" env:"VANTAGE_FALLBACK_SALT"`
	SeedTTL   Duration `yaml:"seed_ttl" env:"VANTAGE_FALLBACK_SEED_TTL"`     // Stored seeds older than this are pruned
	CacheSize int      `yaml:"cache_size" env:"VANTAGE_FALLBACK_CACHE_SIZE"` // Seeds held in memory
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level" env:"VANTAGE_LOG_LEVEL"`
	Format string `yaml:"format" env:"VANTAGE_LOG_FORMAT"` // json or console
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// UnmarshalText implements encoding.TextUnmarshaler, used for environment
// overrides
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
