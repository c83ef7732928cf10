// Package config loads nodegraph settings from defaults, a TOML file,
// environment variables and command-line flags.
//
// Priority, highest first: flags, NODEGRAPH_* environment variables,
// nodegraph.toml, built-in defaults. Keys are flat and use dashes; the
// environment variable for a key is its upper-cased form with underscores,
// for example NODEGRAPH_REDIS_ADDR for redis-addr.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	// AppName is used for the cache directory and environment prefix.
	AppName = "nodegraph"

	// DefaultFile is the config file read from the working directory.
	DefaultFile = "nodegraph.toml"

	envPrefix = "NODEGRAPH_"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config holds all configuration for the application.
type Config struct {
	Cache     string        `koanf:"cache"`
	CacheDir  string        `koanf:"cache-dir"`
	CacheTTL  time.Duration `koanf:"cache-ttl"`
	RedisAddr string        `koanf:"redis-addr"`

	Store    string `koanf:"store"`
	MongoURI string `koanf:"mongo-uri"`
	MongoDB  string `koanf:"mongo-db"`

	Addr     string `koanf:"addr"`
	Detailed bool   `koanf:"detailed"`
	Clusters bool   `koanf:"clusters"`
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
//
// path names the config file. When empty, DefaultFile is read if it exists;
// an explicitly named file must exist.
func Load(path string, f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(makeMapProvider(defaults()), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	// 3. Environment Variables
	// Prefix: NODEGRAPH_ (e.g., NODEGRAPH_REDIS_ADDR=localhost:6379)
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps NODEGRAPH_CACHE_DIR to cache-dir.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", "-")
}

func defaults() map[string]any {
	return map[string]any{
		"cache":      CacheFile,
		"cache-dir":  DefaultCacheDir(),
		"cache-ttl":  "168h",
		"redis-addr": "localhost:6379",
		"store":      StoreMemory,
		"mongo-uri":  "mongodb://localhost:27017",
		"mongo-db":   AppName,
		"addr":       ":8080",
		"detailed":   false,
		"clusters":   false,
	}
}

// Validate checks that backend names are known and their settings present.
func (c *Config) Validate() error {
	switch c.Cache {
	case CacheFile:
		if c.CacheDir == "" {
			return fmt.Errorf("cache-dir is required for the file cache")
		}
	case CacheRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis-addr is required for the redis cache")
		}
	case CacheNone:
	default:
		return fmt.Errorf("invalid cache: %q (must be one of: file, redis, none)", c.Cache)
	}

	switch c.Store {
	case StoreMemory:
	case StoreMongo:
		if c.MongoURI == "" || c.MongoDB == "" {
			return fmt.Errorf("mongo-uri and mongo-db are required for the mongo store")
		}
	default:
		return fmt.Errorf("invalid store: %q (must be one of: memory, mongo)", c.Store)
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("cache-ttl must not be negative")
	}
	return nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/nodegraph, falling back to
// ~/.cache/nodegraph. It returns "" if no home directory is known.
func DefaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", AppName)
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]any
}

func makeMapProvider(m map[string]any) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]any, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
