package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgtree/pkg/errors"
	"github.com/matzehuels/orgtree/pkg/source"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Source.Kind != source.KindFile || cfg.Cache.Kind != CacheFile {
		t.Errorf("kinds = %q/%q", cfg.Source.Kind, cfg.Cache.Kind)
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
	}
}

func TestDecode(t *testing.T) {
	cfg, err := Decode(`
[log]
level = "debug"

[source]
kind = "mongo"
uri = "mongodb://db:27017"
database = "admin_console"

[cache]
kind = "redis"
addr = "cache:6379"
ttl = "90m"
`)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if cfg.Source.Kind != source.KindMongo || cfg.Source.Database != "admin_console" {
		t.Errorf("Source = %+v", cfg.Source)
	}
	if cfg.Cache.Kind != CacheRedis || cfg.Cache.Addr != "cache:6379" || cfg.Cache.TTL != 90*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("unset sections should keep defaults, Server.Addr = %q", cfg.Server.Addr)
	}
	lvl, err := cfg.LogLevel()
	if err != nil || lvl != log.DebugLevel {
		t.Errorf("LogLevel() = %v, %v", lvl, err)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `[source`},
		{"source kind", "[source]\nkind = \"ldap\""},
		{"cache kind", "[cache]\nkind = \"memcached\""},
		{"log level", "[log]\nlevel = \"loud\""},
		{"negative ttl", "[cache]\nttl = \"-1h\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Decode() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[source]\nkind = \"rest\"\nbase_url = \"https://hr.example.com/api\"\ntoken = \"from-file\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvRESTToken, "from-env")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source.BaseURL != "https://hr.example.com/api" {
		t.Errorf("BaseURL = %q", cfg.Source.BaseURL)
	}
	if cfg.Source.Token != "from-env" {
		t.Errorf("Token = %q, environment should win", cfg.Source.Token)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(explicit missing) error = %v, want INVALID_CONFIG", err)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") without a default file should succeed: %v", err)
	}
	if cfg.Source.Kind != source.KindFile {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("DefaultCacheDir() = %q", dir)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err = DefaultCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if dir != filepath.Join(home, ".cache", AppName) {
		t.Errorf("DefaultCacheDir() = %q, want under %s/.cache", dir, home)
	}
}

func TestCacheDirOverride(t *testing.T) {
	cfg := Default()
	cfg.Cache.Dir = "/var/cache/orgtree"
	if dir, _ := cfg.CacheDir(); dir != "/var/cache/orgtree" {
		t.Errorf("CacheDir() = %q", dir)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	p, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join("/tmp/cfg", AppName, "config.toml") {
		t.Errorf("DefaultPath() = %q", p)
	}
}
