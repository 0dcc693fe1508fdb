// Package config provides configuration loading for the terrasim binaries.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/terra-world/internal/scenario"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds the run configuration. Simulation rules are not configurable.
type Config struct {
	LogLevel string `yaml:"log_level"`
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`

	Archive   ArchiveConfig   `yaml:"archive"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	API       APIConfig       `yaml:"api"`
	Generator GeneratorConfig `yaml:"generator"`
}

// ArchiveConfig controls the SQLite run archive and the compressed tick log.
type ArchiveConfig struct {
	Enabled    bool   `yaml:"enabled"`
	DBPath     string `yaml:"db_path"`
	TickLogDir string `yaml:"tick_log_dir"` // empty disables the tick log
}

// TelemetryConfig controls CSV output.
type TelemetryConfig struct {
	Dir string `yaml:"dir"` // empty disables telemetry
}

// APIConfig controls the read-only observer API.
type APIConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
	StreamRate  int      `yaml:"stream_rate"` // stream connections per client per minute
}

// GeneratorConfig holds the scenario generator parameters.
type GeneratorConfig struct {
	Seed     int64 `yaml:"seed"`
	Width    int   `yaml:"width"`
	Height   int   `yaml:"height"`
	Energy   int   `yaml:"energy"`
	Commands int   `yaml:"commands"`
}

// Load loads configuration from a YAML file, merging with embedded defaults,
// then applies environment overrides. If path is empty, only the defaults
// and the environment are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only keys present in the file overwrite the defaults.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values with TERRA_* environment variables.
func (c *Config) applyEnv() {
	c.LogLevel = envOrDefault("TERRA_LOG_LEVEL", c.LogLevel)
	c.Archive.DBPath = envOrDefault("TERRA_DB_PATH", c.Archive.DBPath)
	c.API.Port = envIntOrDefault("TERRA_API_PORT", c.API.Port)
	if origins := os.Getenv("TERRA_CORS_ORIGINS"); origins != "" {
		c.API.CORSOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.API.CORSOrigins = append(c.API.CORSOrigins, o)
			}
		}
	}
}

// Validate rejects values no run could use.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.API.Enabled && (c.API.Port <= 0 || c.API.Port > 65535) {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	if c.Archive.Enabled && c.Archive.DBPath == "" {
		return fmt.Errorf("archive.db_path is required when the archive is enabled")
	}
	g := c.Generator
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("generator dimensions %dx%d must be positive", g.Height, g.Width)
	}
	if g.Energy < 0 || g.Commands < 0 {
		return fmt.Errorf("generator energy and commands must not be negative")
	}
	return nil
}

// Level returns the slog level for LogLevel.
func (c *Config) Level() slog.Level {
	lvl, _ := ParseLevel(c.LogLevel)
	return lvl
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", s, err)
	}
	return lvl, nil
}

// GenConfig converts the generator section for scenario.Generate.
func (c *Config) GenConfig() scenario.GenConfig {
	g := c.Generator
	return scenario.GenConfig{
		Seed:     g.Seed,
		Width:    g.Width,
		Height:   g.Height,
		Energy:   g.Energy,
		Commands: g.Commands,
	}
}

// WriteYAML saves the configuration, e.g. next to telemetry output.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
