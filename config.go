package gviz

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// QueryConfig bounds what a single query is allowed to cost.
type QueryConfig struct {
	MaxRowLimit     int           `toml:"max_row_limit"`
	DefaultTimeout  time.Duration `toml:"default_timeout"`
	MaxGroupColumns int           `toml:"max_group_columns"`
}

// LoggingConfig controls the zap logger construction.
type LoggingConfig struct {
	Level      string `toml:"level"`
	Encoding   string `toml:"encoding"` // "json" or "console"
	OutputPath string `toml:"output_path"`

	// LogRotation, when non-nil, routes logging output through a
	// lumberjack.Logger instead of stdout/OutputPath.
	LogRotation *LogRotationConfig `toml:"log_rotation"`
}

// LogRotationConfig mirrors lumberjack.Logger's own fields, layered
// under TOML so an operator can cap on-disk log growth without touching
// code.
type LogRotationConfig struct {
	Filename   string `toml:"filename"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// ProviderConfig describes one configured DataProvider backend.
type ProviderConfig struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"` // "postgres", "duckdb", "s3", "csv"
	DSN  string `toml:"dsn"`
	Path string `toml:"path"`

	// Table names the relation queried by "postgres" and "duckdb" kinds.
	Table string `toml:"table"`

	// Bucket, Key, and CacheDir configure an "s3" kind: the object
	// fetched on startup and the local directory it's cached into
	// before DuckDB reads it.
	Bucket   string `toml:"bucket"`
	Key      string `toml:"key"`
	CacheDir string `toml:"cache_dir"`

	// SchemaPath, if set, points at a JSON Schema document the
	// provider's declared columns must validate against before any
	// query against it is served.
	SchemaPath string `toml:"schema_path"`
}

// ServerConfig controls the cmd/server HTTP listener.
type ServerConfig struct {
	Addr              string   `toml:"addr"`
	AllowedOrigins    []string `toml:"allowed_origins"`
	RequireSameOrigin bool     `toml:"require_same_origin"`
}

// Config is the top-level struct-of-structs configuration, loadable from
// a TOML file or environment variables.
type Config struct {
	Query     QueryConfig      `toml:"query"`
	Logging   LoggingConfig    `toml:"logging"`
	Server    ServerConfig     `toml:"server"`
	Providers []ProviderConfig `toml:"providers"`
}

// DefaultConfig returns the baseline configuration used when no file or
// environment overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Query: QueryConfig{
			MaxRowLimit:     100000,
			DefaultTimeout:  30 * time.Second,
			MaxGroupColumns: 16,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
		Server: ServerConfig{
			Addr:              ":8080",
			RequireSameOrigin: true,
		},
	}
}

// LoadConfigFile reads a TOML file over top of DefaultConfig.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnv applies environment-variable overrides on top of cfg,
// following the GVIZ_ prefix convention.
func LoadConfigEnv(cfg *Config) *Config {
	cfg.Query.MaxRowLimit = getEnvInt("GVIZ_MAX_ROW_LIMIT", cfg.Query.MaxRowLimit)
	cfg.Query.DefaultTimeout = getEnvDuration("GVIZ_DEFAULT_TIMEOUT", cfg.Query.DefaultTimeout)
	cfg.Logging.Level = getEnv("GVIZ_LOG_LEVEL", cfg.Logging.Level)
	cfg.Server.Addr = getEnv("GVIZ_SERVER_ADDR", cfg.Server.Addr)
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// Validate checks configuration invariants, mirroring the teacher's
// fail-fast Validate() convention.
func (c *Config) Validate() error {
	if c.Query.MaxRowLimit <= 0 {
		return fmt.Errorf("query.max_row_limit must be positive")
	}
	if c.Query.DefaultTimeout <= 0 {
		return fmt.Errorf("query.default_timeout must be positive")
	}
	switch c.Logging.Encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.encoding must be json or console, got %q", c.Logging.Encoding)
	}
	if c.Logging.LogRotation != nil && c.Logging.LogRotation.Filename == "" {
		return fmt.Errorf("logging.log_rotation.filename is required when log_rotation is set")
	}
	seen := map[string]bool{}
	for _, p := range c.Providers {
		if p.Name == "" {
			return fmt.Errorf("provider entry missing name")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate provider name %q", p.Name)
		}
		seen[p.Name] = true
		switch p.Kind {
		case "postgres":
			if p.DSN == "" || p.Table == "" {
				return fmt.Errorf("provider %q: postgres requires dsn and table", p.Name)
			}
		case "duckdb":
			if p.DSN == "" || p.Table == "" {
				return fmt.Errorf("provider %q: duckdb requires dsn and table", p.Name)
			}
		case "s3":
			if p.Bucket == "" || p.Key == "" {
				return fmt.Errorf("provider %q: s3 requires bucket and key", p.Name)
			}
		case "csv":
			if p.Path == "" {
				return fmt.Errorf("provider %q: csv requires path", p.Name)
			}
		default:
			return fmt.Errorf("provider %q: unknown kind %q", p.Name, p.Kind)
		}
	}
	return nil
}
