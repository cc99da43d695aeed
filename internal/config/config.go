// Package config loads YAML configuration for the catalog tools.
//
// Lookup order:
//  1. $LEO_CATALOG_CONFIG
//  2. ./leo-catalog.yaml
//
// A missing file is not an error; defaults apply. Flags may still override
// individual values at the command layer.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const envConfigPath = "LEO_CATALOG_CONFIG"

// Config is the root configuration document.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Filter  FilterConfig  `yaml:"filter"`
	Export  ExportConfig  `yaml:"export"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig selects where raw element text comes from. URL, when set,
// takes precedence over Group.
type SourceConfig struct {
	Group          string `yaml:"group"`
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the fetch timeout as a duration.
func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// FilterConfig holds the classification predicates.
type FilterConfig struct {
	MaxPerigeeKm float64 `yaml:"max_perigee_km"`
	NameContains string  `yaml:"name_contains"`
}

// ExportConfig names the artifact.
type ExportConfig struct {
	Basename string `yaml:"basename"`
	Dir      string `yaml:"dir"`
}

// ServerConfig holds the HTTP surface addresses.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	MetricsAddr     string `yaml:"metrics_addr"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
}

// CacheTTL returns how long a fetched snapshot may be served from memory.
func (s ServerConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

// LoggingConfig mirrors the logging package's Config fields.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load finds and loads the config file, or returns defaults if none found.
// The second return value is the path actually used, empty for defaults.
func Load() (*Config, string, error) {
	path := os.Getenv(envConfigPath)
	if path == "" {
		if _, err := os.Stat("leo-catalog.yaml"); err == nil {
			path = "leo-catalog.yaml"
		}
	}
	if path == "" {
		return Default(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, path, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Source.Group == "" && c.Source.URL == "" {
		c.Source.Group = "active"
	}
	if c.Source.TimeoutSeconds <= 0 {
		c.Source.TimeoutSeconds = 30
	}
	if c.Filter.MaxPerigeeKm <= 0 {
		c.Filter.MaxPerigeeKm = 2000
	}
	if c.Export.Basename == "" {
		c.Export.Basename = "LEO_only"
	}
	if c.Export.Dir == "" {
		c.Export.Dir = "."
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.MetricsAddr == "" {
		c.Server.MetricsAddr = ":9090"
	}
	if c.Server.CacheTTLSeconds <= 0 {
		c.Server.CacheTTLSeconds = 300
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}
