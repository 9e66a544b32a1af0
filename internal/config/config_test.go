package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vantage/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("Server.Addr = %s, want :3000", cfg.Server.Addr)
	}
	if cfg.Server.WriteTimeout != 0 {
		t.Errorf("Server.WriteTimeout = %s, want 0", cfg.Server.WriteTimeout.Duration())
	}
	if cfg.Database.Path == "" {
		t.Error("Database.Path should not be empty")
	}
	if cfg.Fallback.Mode != FallbackMemoize {
		t.Errorf("Fallback.Mode = %s, want %s", cfg.Fallback.Mode, FallbackMemoize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"regenerate mode", func(c *Config) { c.Fallback.Mode = FallbackRegenerate }, ""},
		{"json logs", func(c *Config) { c.Log.Format = LogFormatJSON }, ""},
		{"unknown mode", func(c *Config) { c.Fallback.Mode = "random" }, "fallback.mode"},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"empty addr", func(c *Config) { c.Server.Addr = " " }, "server.addr"},
		{"negative timeout", func(c *Config) { c.Server.IdleTimeout = Duration(-time.Second) }, "server.idle_timeout"},
		{"negative seed ttl", func(c *Config) { c.Fallback.SeedTTL = Duration(-time.Hour) }, "fallback.seed_ttl"},
		{"negative cache size", func(c *Config) { c.Fallback.CacheSize = -1 }, "fallback.cache_size"},
		{"classifier override", func(c *Config) {
			c.Classifier = map[string]map[string]domain.Category{"status": {"Escalated": domain.CategoryDanger}}
		}, ""},
		{"unknown classifier category", func(c *Config) {
			c.Classifier = map[string]map[string]domain.Category{"status": {"Escalated": "purple"}}
		}, "classifier.status.Escalated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate() = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:8080"
	cfg.Server.WriteTimeout = Duration(45 * time.Second)
	cfg.Fallback.Mode = FallbackRegenerate
	cfg.Fallback.Salt = "pepper"
	cfg.Catalog.Fixtures = "/srv/views"

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}

	if loaded.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("Server.Addr = %s, want 127.0.0.1:8080", loaded.Server.Addr)
	}
	if loaded.Server.WriteTimeout.Duration() != 45*time.Second {
		t.Errorf("Server.WriteTimeout = %s, want 45s", loaded.Server.WriteTimeout.Duration())
	}
	if loaded.Fallback.Mode != FallbackRegenerate || loaded.Fallback.Salt != "pepper" {
		t.Errorf("Fallback = %+v, want regenerate/pepper", loaded.Fallback)
	}
	if loaded.Catalog.Fixtures != "/srv/views" {
		t.Errorf("Catalog.Fixtures = %s, want /srv/views", loaded.Catalog.Fixtures)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("server:\n  addr: \":4000\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	if cfg.Server.Addr != ":4000" {
		t.Errorf("Server.Addr = %s, want :4000", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout.Duration() != 10*time.Second {
		t.Errorf("Server.ReadTimeout = %s, want 10s", cfg.Server.ReadTimeout.Duration())
	}
	if cfg.Log.Format != LogFormatConsole {
		t.Errorf("Log.Format = %s, want %s", cfg.Log.Format, LogFormatConsole)
	}
	if cfg.Fallback.SeedTTL.Duration() != 30*24*time.Hour {
		t.Errorf("Fallback.SeedTTL = %s, want 720h", cfg.Fallback.SeedTTL.Duration())
	}
	if cfg.Fallback.CacheSize != 4096 {
		t.Errorf("Fallback.CacheSize = %d, want 4096", cfg.Fallback.CacheSize)
	}
}

func TestLoadClassifier(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	data := "classifier:\n  status:\n    Escalated: danger\n  priority:\n    P0: danger\n"
	if err := os.WriteFile(configPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if got := cfg.Classifier["status"]["Escalated"]; got != domain.CategoryDanger {
		t.Errorf("classifier.status.Escalated = %s, want danger", got)
	}
	if got := cfg.Classifier["priority"]["P0"]; got != domain.CategoryDanger {
		t.Errorf("classifier.priority.P0 = %s, want danger", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("server:\n  read_timeout: soon\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := LoadFromPath(configPath); err == nil {
		t.Error("LoadFromPath() should reject an unparseable duration")
	}
	if _, _, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFromPath() should fail for a missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Server.Addr = ":5000"
	cfg.Log.Level = "info"
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	t.Setenv("VANTAGE_ADDR", ":6000")
	t.Setenv("VANTAGE_DB_PATH", ":memory:")
	t.Setenv("VANTAGE_LOG_LEVEL", "debug")
	t.Setenv("VANTAGE_FALLBACK_SALT", "from-env")
	t.Setenv("VANTAGE_CATALOG_WATCH", "true")
	t.Setenv("VANTAGE_FALLBACK_SEED_TTL", "48h")

	loaded, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	if loaded.Server.Addr != ":6000" {
		t.Errorf("Server.Addr = %s, want :6000", loaded.Server.Addr)
	}
	if loaded.Database.Path != ":memory:" {
		t.Errorf("Database.Path = %s, want :memory:", loaded.Database.Path)
	}
	if loaded.Log.Level != "debug" {
		t.Errorf("Log.Level = %s, want debug", loaded.Log.Level)
	}
	if loaded.Fallback.Salt != "from-env" {
		t.Errorf("Fallback.Salt = %s, want from-env", loaded.Fallback.Salt)
	}
	if !loaded.Catalog.Watch {
		t.Error("Catalog.Watch = false, want true from VANTAGE_CATALOG_WATCH")
	}
	if loaded.Fallback.SeedTTL.Duration() != 48*time.Hour {
		t.Errorf("Fallback.SeedTTL = %s, want 48h", loaded.Fallback.SeedTTL.Duration())
	}
	// Not overridden
	if loaded.Log.Format != LogFormatConsole {
		t.Errorf("Log.Format = %s, want %s", loaded.Log.Format, LogFormatConsole)
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	oldWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldWd)

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	// Explicit path doesn't exist, should fall back to the working directory
	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	found := FindConfigPath()
	if filepath.Base(found) != ConfigFileName {
		t.Errorf("FindConfigPath() = %q, want working directory config", found)
	}

	// Existing explicit path wins
	explicit := filepath.Join(tmpDir, "explicit.yaml")
	if err := cfg.Save(explicit); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	t.Setenv(EnvConfigPath, explicit)
	if found := FindConfigPath(); found != explicit {
		t.Errorf("FindConfigPath() = %q, want %q", found, explicit)
	}
}

func TestSearchPathsOrder(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/explicit.yaml")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("HOME", "/tmp/home")

	paths := SearchPaths()
	if len(paths) != 5 {
		t.Fatalf("SearchPaths() = %v, want 5 entries", paths)
	}
	if paths[0] != "/tmp/explicit.yaml" {
		t.Errorf("paths[0] = %s, want the explicit path", paths[0])
	}
	if paths[2] != filepath.Join("/tmp/xdg", ConfigDirName, "config.yaml") {
		t.Errorf("paths[2] = %s, want the XDG path", paths[2])
	}
	if paths[4] != filepath.Join("/etc", ConfigDirName, "config.yaml") {
		t.Errorf("paths[4] = %s, want the system path", paths[4])
	}
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}

	var parsed Duration
	if err := parsed.UnmarshalText([]byte("90s")); err != nil {
		t.Fatalf("UnmarshalText() error: %v", err)
	}
	if parsed.Duration() != 90*time.Second {
		t.Errorf("UnmarshalText() = %s, want 1m30s", parsed.Duration())
	}
}
