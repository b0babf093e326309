// Package config loads kmonadfmt settings from a TOML file.
//
// Settings are looked up in this order, the first existing file wins:
//
//  1. the path given with --config
//  2. ./kmonadfmt.toml
//  3. $XDG_CONFIG_HOME/kmonadfmt/config.toml (~/.config when unset)
//
// Missing files are not an error; [Default] values apply. Command-line flags
// override whatever is loaded.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/kmonadfmt/pkg/align"
	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
	"github.com/matzehuels/kmonadfmt/pkg/textpos"
)

// FileName is the project-local config file name.
const FileName = "kmonadfmt.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds all settings.
type Config struct {
	Width       int      `toml:"width"`
	Placeholder string   `toml:"placeholder"`
	Columns     string   `toml:"columns"`
	Extensions  []string `toml:"extensions"`
	Jobs        int      `toml:"jobs"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`

	// Path is the file the settings were read from, empty for defaults.
	Path string `toml:"-"`
}

// CacheConfig selects where clean-file markers are kept.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP endpoint.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string like "24h".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Width:       6,
		Placeholder: string(align.PlaceholderPassthrough),
		Columns:     string(textpos.Runes),
		Extensions:  []string{".kbd"},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Server: ServerConfig{Addr: "127.0.0.1:7878"},
	}
}

// Load reads settings. An explicit path must exist; otherwise the default
// locations are tried and defaults are returned when none exists.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	for _, p := range SearchPaths() {
		cfg, err := LoadFile(p)
		if errs.Is(err, errs.ErrCodeFileNotFound) {
			continue
		}
		return cfg, err
	}
	return Default(), nil
}

// SearchPaths returns the implicit config locations in lookup order.
func SearchPaths() []string {
	paths := []string{FileName}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		}
	}
	if dir != "" {
		paths = append(paths, filepath.Join(dir, "kmonadfmt", "config.toml"))
	}
	return paths
}

// LoadFile reads one file on top of the defaults. Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s not found", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read %s", path)
	}

	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := errs.ValidateWidth(c.Width); err != nil {
		return err
	}
	if c.Placeholder != string(align.PlaceholderCopy) {
		if err := errs.ValidatePlaceholder(c.Placeholder); err != nil {
			return err
		}
	}
	if _, err := textpos.ParseUnit(c.Columns); err != nil {
		return err
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache backend %q needs redis_url", BackendRedis)
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	return nil
}

// Unit returns the configured column unit.
func (c *Config) Unit() textpos.Unit {
	u, err := textpos.ParseUnit(c.Columns)
	if err != nil {
		return textpos.Runes
	}
	return u
}
