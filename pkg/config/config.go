// Package config loads the orgtree configuration file.
//
// The file is TOML and every section is optional:
//
//	[log]
//	level = "info"            # debug | info | warn | error
//
//	[server]
//	addr = ":8080"
//
//	[source]
//	kind = "file"             # file | mongo | rest
//	path = "org.json"
//	uri = "mongodb://localhost:27017"
//	database = "admin_console"
//	base_url = "https://console.example.com/api"
//	token = ""
//
//	[cache]
//	kind = "file"             # file | redis | none
//	dir = ""                  # default: $XDG_CACHE_HOME/orgtree
//	addr = "localhost:6379"
//	ttl = "24h"
//
// Secrets can be supplied through the environment instead of the file:
// ORGTREE_MONGO_URI, ORGTREE_REST_TOKEN and ORGTREE_REDIS_PASSWORD override
// the matching keys.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgtree/pkg/cache"
	"github.com/matzehuels/orgtree/pkg/errors"
	"github.com/matzehuels/orgtree/pkg/source"
)

// AppName names the configuration and cache directories.
const AppName = "orgtree"

// Cache kinds.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// CacheKinds lists every supported cache kind.
var CacheKinds = []string{CacheFile, CacheRedis, CacheNone}

// DefaultAddr is the listen address of `orgtree serve`.
const DefaultAddr = ":8080"

// Environment variables that override file values.
const (
	EnvMongoURI      = "ORGTREE_MONGO_URI"
	EnvRESTToken     = "ORGTREE_REST_TOKEN"
	EnvRedisPassword = "ORGTREE_REDIS_PASSWORD"
)

// Config is the decoded configuration file.
type Config struct {
	Log    Log    `toml:"log"`
	Server Server `toml:"server"`
	Source Source `toml:"source"`
	Cache  Cache  `toml:"cache"`
}

type Log struct {
	Level string `toml:"level"`
}

type Server struct {
	Addr string `toml:"addr"`
}

// Source selects where positions and relationships are loaded from.
type Source struct {
	Kind string `toml:"kind"`

	// file
	Path string `toml:"path"`

	// mongo
	URI      string `toml:"uri"`
	Database string `toml:"database"`

	// rest
	BaseURL string `toml:"base_url"`
	Token   string `toml:"token"`
}

// Cache selects the cache backend for built trees and artifacts.
type Cache struct {
	Kind     string        `toml:"kind"`
	Dir      string        `toml:"dir"`
	Addr     string        `toml:"addr"`
	Password string        `toml:"password"`
	DB       int           `toml:"db"`
	TTL      time.Duration `toml:"ttl"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Log:    Log{Level: "info"},
		Server: Server{Addr: DefaultAddr},
		Source: Source{Kind: source.KindFile},
		Cache:  Cache{Kind: CacheFile, Addr: "localhost:6379", TTL: cache.DefaultTTL},
	}
}

// Load reads the file at path on top of [Default], applies environment
// overrides and validates the result. An empty path loads [DefaultPath]
// if it exists and the defaults otherwise; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		if explicit || !os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s", path)
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses TOML text on top of [Default] without touching the
// environment. Used for tests and embedded configs.
func Decode(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Source.URI = v
	}
	if v := os.Getenv(EnvRESTToken); v != "" {
		c.Source.Token = v
	}
	if v := os.Getenv(EnvRedisPassword); v != "" {
		c.Cache.Password = v
	}
}

// Validate rejects unknown kinds and levels.
func (c Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if err := source.ValidateKind(c.Source.Kind); err != nil {
		return err
	}
	if !slices.Contains(CacheKinds, c.Cache.Kind) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache kind %q (want one of %s)", c.Cache.Kind, strings.Join(CacheKinds, ", "))
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	return nil
}

// LogLevel parses the configured level.
func (c Config) LogLevel() (log.Level, error) {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, errors.Wrap(errors.ErrCodeInvalidConfig, err, "log level")
	}
	return lvl, nil
}

// CacheDir returns the configured cache directory, falling back to
// [DefaultCacheDir].
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return DefaultCacheDir()
}

// =============================================================================
// Paths
// =============================================================================

// DefaultCacheDir returns the cache directory using the XDG standard
// (~/.cache/orgtree/).
func DefaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/orgtree/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}
