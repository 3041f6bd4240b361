package sc3stuff

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sc3stuff/sc3stuff/format"
	"github.com/sc3stuff/sc3stuff/graph"
)

// Config holds all configuration for the catalogue.
type Config struct {
	// DBPath is the full path to the SQLite database file.
	// If empty, defaults to ~/.sc3stuff/<DBName>.db
	DBPath string `json:"db_path" yaml:"db_path"`

	// DBName is the name for the database (used when DBPath is empty).
	DBName string `json:"db_name" yaml:"db_name"`

	// StorageDir controls where the database is created when DBPath
	// is not explicitly set. Options: "home" (default) uses ~/.sc3stuff/,
	// "local" uses the current working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level"`
	// LogFormat is "json" or "text".
	LogFormat string `json:"log_format" yaml:"log_format"`

	Extract ExtractConfig `json:"extract" yaml:"extract"`
	Server  ServerConfig  `json:"server" yaml:"server"`

	// Default result sizes for listings.
	EventsLimit int `json:"events_limit" yaml:"events_limit"`
	NearestK    int `json:"nearest_k" yaml:"nearest_k"`
}

// ExtractConfig holds the default extraction filters.
type ExtractConfig struct {
	FilterOrigins bool `json:"filter_origins" yaml:"filter_origins"`
	FilterPicks   bool `json:"filter_picks" yaml:"filter_picks"`
	TimeDigits    int  `json:"time_digits" yaml:"time_digits"`
}

// ServerConfig configures cmd/server.
type ServerConfig struct {
	Addr        string `json:"addr" yaml:"addr"`
	APIKey      string `json:"api_key" yaml:"api_key"`
	CORSOrigins string `json:"cors_origins" yaml:"cors_origins"` // comma-separated
}

// DefaultConfig returns a Config with both extraction filters enabled.
// Database is stored in ~/.sc3stuff/sc3stuff.db by default.
func DefaultConfig() Config {
	return Config{
		DBName:     "sc3stuff",
		StorageDir: "home",
		LogLevel:   "info",
		LogFormat:  "json",
		Extract: ExtractConfig{
			FilterOrigins: true,
			FilterPicks:   true,
			TimeDigits:    format.DefaultDigits,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		EventsLimit: 50,
		NearestK:    10,
	}
}

// LoadConfig reads a YAML or JSON file over DefaultConfig. Files ending in
// .json are decoded as JSON, everything else as YAML. An empty path
// returns the defaults. Environment overrides are applied last.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			err = json.Unmarshal(data, &cfg)
		} else {
			err = yaml.Unmarshal(data, &cfg)
		}
		if err != nil {
			return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}
	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from SC3STUFF_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SC3STUFF_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("SC3STUFF_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SC3STUFF_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("SC3STUFF_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SC3STUFF_API_KEY"); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv("SC3STUFF_CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = v
	}
	if v := os.Getenv("SC3STUFF_TIME_DIGITS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Extract.TimeDigits = n
		}
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Extract.TimeDigits < 0 || c.Extract.TimeDigits > 6 {
		return fmt.Errorf("%w: time_digits must be between 0 and 6, got %d", ErrInvalidConfig, c.Extract.TimeDigits)
	}
	if c.EventsLimit < 0 || c.NearestK < 0 {
		return fmt.Errorf("%w: limits must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "json", "text":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// ExtractOptions converts the configured filters to graph options.
func (c *Config) ExtractOptions() []graph.Option {
	return []graph.Option{
		graph.WithOriginFilter(c.Extract.FilterOrigins),
		graph.WithPickFilter(c.Extract.FilterPicks),
	}
}

// resolveDBPath computes the final database path from config fields.
func (c *Config) resolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}

	name := c.DBName
	if name == "" {
		name = "sc3stuff"
	}

	switch c.StorageDir {
	case "local", "cwd":
		return name + ".db"
	default: // "home" or empty
		home, err := os.UserHomeDir()
		if err != nil {
			return name + ".db" // fallback to cwd
		}
		return filepath.Join(home, ".sc3stuff", name+".db")
	}
}
