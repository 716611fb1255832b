// Package config loads lunarian settings from a TOML file and the environment.
//
// # Overview
//
// Settings are resolved in three layers: built-in defaults, the TOML file
// (missing files are not an error), then environment overrides. The result
// is a plain [Config] value that the CLI and server hand to the packages
// they wire together.
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Server.Addr)
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/cyzmcl/Lunarian/pkg/cache"
	"github.com/cyzmcl/Lunarian/pkg/compose"
	"github.com/cyzmcl/Lunarian/pkg/errors"
)

const appName = "lunarian"

// Defaults.
const (
	DefaultAddr           = ":8000"
	DefaultMaxBodyMB      = 32
	DefaultRequestTimeout = 5 * time.Minute
	DefaultWorkers        = 4
	DefaultProminence     = compose.DefaultProminence
	DefaultHeroTimeout    = 300 * time.Second
	DefaultHeroRate       = 2.0
	DefaultHeroBurst      = 2
	DefaultHeroAttempts   = 3
	DefaultCacheBackend   = cache.BackendMemory
	DefaultHeroTTL        = 7 * 24 * time.Hour
	DefaultArtifactTTL    = 24 * time.Hour
	DefaultDatabase       = "lunarian"
	DefaultCollection     = "generations"
)

// Environment variables read by [Load].
const (
	EnvHeroURL     = "HERO_LOCATOR_URL"
	EnvHeroTimeout = "HERO_REQUEST_TIMEOUT"
	EnvRedisURL    = "REDIS_URL"
	EnvMongoURI    = "MONGO_URI"
	EnvFontDir     = "LUNARIAN_FONT_DIR"
	EnvPort        = "PORT"
)

// Duration is a time.Duration that reads TOML strings such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type Config struct {
	Server  Server  `toml:"server"`
	Render  Render  `toml:"render"`
	Fonts   Fonts   `toml:"fonts"`
	Hero    Hero    `toml:"hero"`
	Cache   Cache   `toml:"cache"`
	History History `toml:"history"`
}

type Server struct {
	Addr           string   `toml:"addr"`
	CORSOrigins    []string `toml:"cors_origins"`
	MaxBodyMB      int      `toml:"max_body_mb"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// MaxBodyBytes returns the request body limit in bytes.
func (s Server) MaxBodyBytes() int64 {
	return int64(s.MaxBodyMB) << 20
}

type Render struct {
	Workers    int     `toml:"workers"`
	Prominence float64 `toml:"prominence"`
}

type Fonts struct {
	Dir      string            `toml:"dir"`
	Default  string            `toml:"default"`
	Families map[string]string `toml:"families"`
}

type Hero struct {
	RemoteURL     string   `toml:"remote_url"`
	Timeout       Duration `toml:"timeout"`
	RatePerSecond float64  `toml:"rate_per_second"`
	Burst         int      `toml:"burst"`
	Attempts      int      `toml:"attempts"`
}

type Cache struct {
	Backend     string   `toml:"backend"`
	Dir         string   `toml:"dir"`
	RedisURL    string   `toml:"redis_url"`
	HeroTTL     Duration `toml:"hero_ttl"`
	ArtifactTTL Duration `toml:"artifact_ttl"`
}

// Options converts the section into cache constructor options.
func (c Cache) Options() cache.Options {
	return cache.Options{Backend: c.Backend, Dir: c.Dir, RedisURL: c.RedisURL}
}

type History struct {
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Enabled reports whether a history store is configured.
func (h History) Enabled() bool {
	return h.MongoURI != ""
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:           DefaultAddr,
			MaxBodyMB:      DefaultMaxBodyMB,
			RequestTimeout: Duration{DefaultRequestTimeout},
		},
		Render: Render{
			Workers:    DefaultWorkers,
			Prominence: DefaultProminence,
		},
		Hero: Hero{
			Timeout:       Duration{DefaultHeroTimeout},
			RatePerSecond: DefaultHeroRate,
			Burst:         DefaultHeroBurst,
			Attempts:      DefaultHeroAttempts,
		},
		Cache: Cache{
			Backend:     DefaultCacheBackend,
			Dir:         defaultCacheDir(),
			HeroTTL:     Duration{DefaultHeroTTL},
			ArtifactTTL: Duration{DefaultArtifactTTL},
		},
		History: History{
			Database:   DefaultDatabase,
			Collection: DefaultCollection,
		},
	}
}

// Load reads the config file at path (or [DefaultPath] when empty), then
// applies environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := Parse(data, cfg); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
			}
		case os.IsNotExist(err):
		default:
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// Parse decodes TOML data over cfg, keeping values the data leaves unset.
func Parse(data []byte, cfg *Config) error {
	return toml.Unmarshal(data, cfg)
}

// ApplyEnv overrides fields from the environment. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvHeroURL); ok && v != "" {
		c.Hero.RemoteURL = v
	}
	if v, ok := lookup(EnvHeroTimeout); ok && v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil || secs <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be a positive number of seconds, got %q", EnvHeroTimeout, v)
		}
		c.Hero.Timeout = Duration{time.Duration(secs * float64(time.Second))}
	}
	if v, ok := lookup(EnvRedisURL); ok && v != "" {
		c.Cache.RedisURL = v
		if c.Cache.Backend == "" || c.Cache.Backend == DefaultCacheBackend {
			c.Cache.Backend = cache.BackendRedis
		}
	}
	if v, ok := lookup(EnvMongoURI); ok && v != "" {
		c.History.MongoURI = v
	}
	if v, ok := lookup(EnvFontDir); ok && v != "" {
		c.Fonts.Dir = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be a port number, got %q", EnvPort, v)
		}
		c.Server.Addr = ":" + v
	}
	return nil
}

// normalize replaces zero or out-of-range values with defaults.
func (c *Config) normalize() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.MaxBodyMB <= 0 {
		c.Server.MaxBodyMB = DefaultMaxBodyMB
	}
	if c.Server.RequestTimeout.Duration <= 0 {
		c.Server.RequestTimeout.Duration = DefaultRequestTimeout
	}
	if c.Render.Workers <= 0 {
		c.Render.Workers = DefaultWorkers
	}
	if c.Render.Prominence <= 0 || c.Render.Prominence > 1 {
		c.Render.Prominence = DefaultProminence
	}
	if c.Hero.Timeout.Duration <= 0 {
		c.Hero.Timeout.Duration = DefaultHeroTimeout
	}
	if c.Hero.RatePerSecond <= 0 {
		c.Hero.RatePerSecond = DefaultHeroRate
	}
	if c.Hero.Burst <= 0 {
		c.Hero.Burst = DefaultHeroBurst
	}
	if c.Hero.Attempts <= 0 {
		c.Hero.Attempts = DefaultHeroAttempts
	}
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.History.Database == "" {
		c.History.Database = DefaultDatabase
	}
	if c.History.Collection == "" {
		c.History.Collection = DefaultCollection
	}
}

// DefaultPath returns ~/.config/lunarian/config.toml, honoring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns ~/.cache/lunarian, honoring XDG_CACHE_HOME.
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

func defaultCacheDir() string {
	dir, err := CacheDir()
	if err != nil {
		return ""
	}
	return dir
}
