// Package config loads the engine configuration from a YAML file with
// environment overrides.
//
// The file layout follows the plugin config.yml:
//
//	database: stalk_data.db
//	logging:
//	  CHUNK_MOVE: false
//	query:
//	  default_limit: 20
//	  max_limit: 500
//
// Action kinds missing from logging are enabled. Unknown keys anywhere are
// accepted; only value types are checked.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/roach88/stalk/internal/event"
	"github.com/roach88/stalk/internal/querysql"
)

// DefaultDatabase is the database file used when none is configured.
const DefaultDatabase = "stalk_data.db"

// Config is the full engine configuration.
type Config struct {
	Database string          `yaml:"database" env:"STALK_DATABASE"`
	Logging  map[string]bool `yaml:"logging"`
	Query    QueryConfig     `yaml:"query"`
	Queue    QueueConfig     `yaml:"queue"`
}

// QueryConfig controls search limits and line formatting.
type QueryConfig struct {
	DefaultLimit int    `yaml:"default_limit" env:"STALK_DEFAULT_LIMIT"`
	MaxLimit     int    `yaml:"max_limit" env:"STALK_MAX_LIMIT"`
	BlockLimit   int    `yaml:"block_limit" env:"STALK_BLOCK_LIMIT"`
	TimeFormat   string `yaml:"time_format" env:"STALK_TIME_FORMAT"`
	Timezone     string `yaml:"timezone" env:"STALK_TIMEZONE"`
}

// QueueConfig controls the write-behind queue.
type QueueConfig struct {
	// MaxDepth caps pending tasks; 0 means unbounded.
	MaxDepth int `yaml:"max_depth" env:"STALK_QUEUE_MAX_DEPTH"`
}

// ConfigError reports a configuration file that could not be used.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid config: %v", e.Err)
	}
	return fmt.Sprintf("invalid config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: DefaultDatabase,
		Logging:  map[string]bool{},
		Query: QueryConfig{
			DefaultLimit: querysql.DefaultLimit,
			MaxLimit:     querysql.DefaultMaxLimit,
			BlockLimit:   querysql.DefaultBlockLimit,
			TimeFormat:   querysql.DefaultTimeLayout,
			Timezone:     "Local",
		},
	}
}

// Load reads the file at path over the defaults, then applies environment
// overrides. An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults only.
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := cfg.decode(data); err != nil {
				return Config{}, &ConfigError{Path: path, Err: err}
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, &ConfigError{Path: path, Err: fmt.Errorf("parse env: %w", err)}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, &ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults without consulting the environment.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return Config{}, &ConfigError{Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, &ConfigError{Err: err}
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if err := validateSchema(doc); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	if c.Logging == nil {
		c.Logging = map[string]bool{}
	}
	return nil
}

// Validate checks cross-field constraints the schema cannot express.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return fmt.Errorf("database path is required")
	}
	q := c.Query
	if q.DefaultLimit <= 0 || q.MaxLimit <= 0 || q.BlockLimit <= 0 {
		return fmt.Errorf("query limits must be positive")
	}
	if q.DefaultLimit > q.MaxLimit {
		return fmt.Errorf("default_limit %d exceeds max_limit %d", q.DefaultLimit, q.MaxLimit)
	}
	if q.BlockLimit > q.MaxLimit {
		return fmt.Errorf("block_limit %d exceeds max_limit %d", q.BlockLimit, q.MaxLimit)
	}
	if c.Queue.MaxDepth < 0 {
		return fmt.Errorf("queue max_depth must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// DisabledActions returns the normalized kinds switched off under logging.
// Keys need not be known kinds.
func (c Config) DisabledActions() []string {
	var off []string
	for name, enabled := range c.Logging {
		if !enabled {
			off = append(off, name)
		}
	}
	sorted := event.NewKindSet(off...).Sorted()
	names := make([]string, len(sorted))
	for i, k := range sorted {
		names[i] = string(k)
	}
	return names
}

// LimitPolicy returns the configured search limits.
func (c Config) LimitPolicy() querysql.LimitPolicy {
	return querysql.LimitPolicy{
		Default:      c.Query.DefaultLimit,
		Max:          c.Query.MaxLimit,
		BlockDefault: c.Query.BlockLimit,
	}
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	switch tz := strings.TrimSpace(c.Query.Timezone); tz {
	case "", "Local":
		return time.Local, nil
	default:
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("timezone %q: %w", tz, err)
		}
		return loc, nil
	}
}

// Formatter returns the configured result line formatter.
func (c Config) Formatter() querysql.Formatter {
	loc, err := c.Location()
	if err != nil {
		loc = time.Local
	}
	return querysql.NewFormatter(c.Query.TimeFormat, loc)
}
