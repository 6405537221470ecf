package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/colgrid/pkg/errors"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ContainerWidth != 1200 || cfg.Store.Backend != BackendFile || cfg.MinWidth.Leaf != 80 {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	src := `
container_width = 1440

[min_width]
top = 120

[store]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "720h"
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ContainerWidth != 1440 || cfg.MinWidth.Top != 120 || cfg.MinWidth.Leaf != 80 {
		t.Errorf("widths = %+v / %+v", cfg.ContainerWidth, cfg.MinWidth)
	}
	if cfg.Store.Backend != BackendRedis || cfg.Store.TTL.Duration != 720*time.Hour {
		t.Errorf("store = %+v", cfg.Store)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("COLGRID_CONTAINER_WIDTH", "900")
	t.Setenv("COLGRID_STORE_BACKEND", "memory")
	t.Setenv("COLGRID_REDIS_DB", "3")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ContainerWidth != 900 || cfg.Store.Backend != BackendMemory || cfg.Store.RedisDB != 3 {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("COLGRID_RESIZE_MIN_WIDTH=30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("COLGRID_RESIZE_MIN_WIDTH") })

	cfg, err := Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ResizeMinWidth != 30 {
		t.Errorf("ResizeMinWidth = %v, want 30", cfg.ResizeMinWidth)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.ContainerWidth = 0 }},
		{"zero resize min", func(c *Config) { c.ResizeMinWidth = 0 }},
		{"negative leaf min", func(c *Config) { c.MinWidth.Leaf = -1 }},
		{"unknown backend", func(c *Config) { c.Store.Backend = "etcd" }},
		{"redis without addr", func(c *Config) { c.Store.Backend = BackendRedis }},
		{"mongo without uri", func(c *Config) { c.Store.Backend = BackendMongo }},
		{"postgres without dsn", func(c *Config) { c.Store.Backend = BackendPostgres }},
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestLoadInvalidFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("container_width = [1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := Path(); got != "/tmp/xdg/colgrid/config.toml" {
		t.Errorf("Path() = %q", got)
	}
}
