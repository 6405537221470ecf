// Package config loads colgrid settings.
//
// Settings come from three layers, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/colgrid/config.toml
//  3. COLGRID_* environment variables, optionally read from a .env file in
//     the working directory
//
// Example config.toml:
//
//	container_width = 1440
//	resize_min_width = 40
//
//	[min_width]
//	top = 120
//	leaf = 80
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "720h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/colgrid/pkg/errors"
)

const appName = "colgrid"

// Store backends.
const (
	BackendNone     = "none"
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

// Config is the full configuration.
type Config struct {
	ContainerWidth float64  `toml:"container_width"`
	ResizeMinWidth float64  `toml:"resize_min_width"`
	MinWidth       MinWidth `toml:"min_width"`
	Store          Store    `toml:"store"`
	Server         Server   `toml:"server"`
}

// MinWidth holds the placeholder widths of width-less columns.
type MinWidth struct {
	Top  float64 `toml:"top"`
	Leaf float64 `toml:"leaf"`
}

// Store selects and configures the state backend.
type Store struct {
	Backend         string   `toml:"backend"`
	Dir             string   `toml:"dir"`
	Scope           string   `toml:"scope"`
	TTL             Duration `toml:"ttl"`
	RedisAddr       string   `toml:"redis_addr"`
	RedisPassword   string   `toml:"redis_password"`
	RedisDB         int      `toml:"redis_db"`
	MongoURI        string   `toml:"mongo_uri"`
	MongoDatabase   string   `toml:"mongo_database"`
	MongoCollection string   `toml:"mongo_collection"`
	PostgresDSN     string   `toml:"postgres_dsn"`
}

// Server configures the HTTP API.
type Server struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`
}

// Duration is a time.Duration written as "90s" or "720h" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ContainerWidth: 1200,
		ResizeMinWidth: 50,
		MinWidth:       MinWidth{Top: 100, Leaf: 80},
		Store: Store{
			Backend:         BackendFile,
			MongoDatabase:   appName,
			MongoCollection: "grid_state",
		},
		Server: Server{
			Addr:       ":8080",
			SessionTTL: Duration{5 * time.Minute},
		},
	}
}

// Path returns the default config file location.
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.toml")
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// Load reads the config file at path on top of the defaults and applies
// environment overrides. An empty path means [Path]; a missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	} else if !os.IsNotExist(err) {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "stat %s", path)
	}

	// A missing .env is fine.
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// applyEnv overrides fields from COLGRID_* variables.
func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"COLGRID_STORE_BACKEND":    &c.Store.Backend,
		"COLGRID_STORE_DIR":        &c.Store.Dir,
		"COLGRID_STORE_SCOPE":      &c.Store.Scope,
		"COLGRID_REDIS_ADDR":       &c.Store.RedisAddr,
		"COLGRID_REDIS_PASSWORD":   &c.Store.RedisPassword,
		"COLGRID_MONGO_URI":        &c.Store.MongoURI,
		"COLGRID_MONGO_DATABASE":   &c.Store.MongoDatabase,
		"COLGRID_MONGO_COLLECTION": &c.Store.MongoCollection,
		"COLGRID_POSTGRES_DSN":     &c.Store.PostgresDSN,
		"COLGRID_SERVER_ADDR":      &c.Server.Addr,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	floats := map[string]*float64{
		"COLGRID_CONTAINER_WIDTH":  &c.ContainerWidth,
		"COLGRID_RESIZE_MIN_WIDTH": &c.ResizeMinWidth,
	}
	for name, dst := range floats {
		v, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", name)
		}
		*dst = f
	}

	if v, ok := os.LookupEnv("COLGRID_REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "COLGRID_REDIS_DB")
		}
		c.Store.RedisDB = n
	}
	if v, ok := os.LookupEnv("COLGRID_STORE_TTL"); ok {
		if err := c.Store.TTL.UnmarshalText([]byte(v)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "COLGRID_STORE_TTL")
		}
	}
	return nil
}

// Validate checks value ranges and backend requirements.
func (c Config) Validate() error {
	if c.ContainerWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "container_width must be positive, got %v", c.ContainerWidth)
	}
	if c.ResizeMinWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "resize_min_width must be positive, got %v", c.ResizeMinWidth)
	}
	if c.MinWidth.Top <= 0 || c.MinWidth.Leaf <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min_width values must be positive")
	}
	if c.Store.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "store ttl cannot be negative")
	}

	switch c.Store.Backend {
	case BackendNone, BackendMemory, BackendFile:
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store backend redis needs redis_addr")
		}
	case BackendMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store backend mongo needs mongo_uri")
		}
	case BackendPostgres:
		if c.Store.PostgresDSN == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store backend postgres needs postgres_dsn")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	return nil
}
