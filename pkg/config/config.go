// Package config loads BridgeGAD settings.
//
// Two sources are merged, later ones winning:
//
//  1. A TOML file (bridgegad.toml) holding drawing defaults for the CLI and
//     the server settings. Missing files are fine unless named explicitly.
//  2. The process environment, optionally seeded from a .env file, for the
//     server settings that differ per deployment.
//
// A minimal file looks like:
//
//	formats = ["dxf", "pdf"]
//	schedule = true
//
//	[drawing]
//	project = "Ring Road"
//	prepared_by = "Bridge Section"
//
//	[server]
//	addr = ":8080"
//	rate_limit = 2.0
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/bridgegad/bridgegad/pkg/errors"
	"github.com/bridgegad/bridgegad/pkg/layout"
	"github.com/bridgegad/bridgegad/pkg/pipeline"
)

const (
	appName = "bridgegad"

	// FileName is the config file looked up in the config directory.
	FileName = "bridgegad.toml"

	// HistoryFile is the SQLite archive used by the CLI.
	HistoryFile = "history.db"
)

// Environment variables read by [ApplyEnv].
const (
	EnvAddr          = "BRIDGEGAD_ADDR"
	EnvRedisURL      = "BRIDGEGAD_REDIS_URL"
	EnvCachePrefix   = "BRIDGEGAD_CACHE_PREFIX"
	EnvMongoURI      = "BRIDGEGAD_MONGO_URI"
	EnvMongoDatabase = "BRIDGEGAD_MONGO_DATABASE"
	EnvRateLimit     = "BRIDGEGAD_RATE_LIMIT"
	EnvRateBurst     = "BRIDGEGAD_RATE_BURST"
	EnvArchivePath   = "BRIDGEGAD_ARCHIVE_PATH"
)

// =============================================================================
// Config
// =============================================================================

// Config is the merged configuration.
type Config struct {
	Formats  []string `toml:"formats"`
	Schedule bool     `toml:"schedule"`
	Strict   bool     `toml:"strict"`

	Drawing layout.Options `toml:"drawing"`
	Server  Server         `toml:"server"`
	Archive Archive        `toml:"archive"`

	// Path is the file the config was read from, empty when none was found.
	Path string `toml:"-"`
}

// Server holds HTTP API settings.
type Server struct {
	Addr           string  `toml:"addr"`
	RedisURL       string  `toml:"redis_url"`
	CachePrefix    string  `toml:"cache_prefix"` // Keeps deployments sharing one Redis apart
	MongoURI       string  `toml:"mongo_uri"`
	MongoDatabase  string  `toml:"mongo_database"`
	RateLimit      float64 `toml:"rate_limit"` // Requests per second per client; 0 disables limiting
	RateBurst      int     `toml:"rate_burst"`
	MaxUploadBytes int64   `toml:"max_upload_bytes"`
}

// Archive holds settings of the local drawing history.
type Archive struct {
	Path     string `toml:"path"`
	Disabled bool   `toml:"disabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Formats: []string{pipeline.DefaultFormat},
		Server: Server{
			Addr:           ":8080",
			RateLimit:      2,
			RateBurst:      5,
			MaxUploadBytes: 10 << 20,
		},
	}
}

// PipelineOptions returns pipeline options seeded with the configured
// drawing defaults. Callers fill in Params and override per run.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Strict:   c.Strict,
		Layout:   c.Drawing,
		Formats:  append([]string(nil), c.Formats...),
		Schedule: c.Schedule,
	}
}

// Validate checks values that would only fail later in a run.
func (c Config) Validate() error {
	if err := pipeline.ValidateFormats(c.Formats); err != nil {
		return err
	}
	if c.Drawing.Scale != "" {
		if _, err := layout.ParseScale(c.Drawing.Scale); err != nil {
			return err
		}
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "rate limit and burst must not be negative")
	}
	return nil
}

// =============================================================================
// Loading
// =============================================================================

// Load reads the TOML file at path on top of [Default] and then applies the
// environment. An empty path means [DefaultPath], which may be absent.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, ApplyEnv(&cfg)
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) || explicit {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
	} else if err := decodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	return nil
}

// LoadDotEnv loads environment files into the process environment without
// overriding variables that are already set. With no arguments it loads
// ".env" from the working directory; missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "load %s", strings.Join(existing, ", "))
	}
	return nil
}

// ApplyEnv overrides server and archive settings from BRIDGEGAD_* variables.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		cfg.Server.RedisURL = v
	}
	if v := os.Getenv(EnvCachePrefix); v != "" {
		cfg.Server.CachePrefix = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		cfg.Server.MongoURI = v
	}
	if v := os.Getenv(EnvMongoDatabase); v != "" {
		cfg.Server.MongoDatabase = v
	}
	if v := os.Getenv(EnvArchivePath); v != "" {
		cfg.Archive.Path = v
	}
	if v := os.Getenv(EnvRateLimit); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s=%q", EnvRateLimit, v)
		}
		cfg.Server.RateLimit = f
	}
	if v := os.Getenv(EnvRateBurst); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s=%q", EnvRateBurst, v)
		}
		cfg.Server.RateBurst = n
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// Dir returns the config directory using XDG standard (~/.config/bridgegad/).
func Dir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultPath returns the location of bridgegad.toml in [Dir].
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/bridgegad/).
func CacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// ArchivePath returns the SQLite history path: the configured one, or
// history.db in the XDG data directory (~/.local/share/bridgegad/).
func (c Config) ArchivePath() (string, error) {
	if c.Archive.Path != "" {
		return c.Archive.Path, nil
	}
	dir, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, HistoryFile), nil
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}
