// Package config provides unified configuration loading for siteperc.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config contains all siteperc configuration settings.
type Config struct {
	// Lattice contains settings for the simulated lattice.
	Lattice LatticeConfig `json:"lattice" yaml:"lattice"`

	// Sweep contains settings for the p-sweep and batch trials.
	Sweep SweepConfig `json:"sweep" yaml:"sweep"`

	// Store contains settings for the run archive.
	Store StoreConfig `json:"store" yaml:"store"`

	// Logging contains settings for operational and trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// LatticeConfig configures the simulated lattice.
type LatticeConfig struct {
	// Side is the lattice side length; a run covers Side*Side nodes.
	Side int `json:"side" yaml:"side"`
}

// SweepConfig configures the p-sweep.
type SweepConfig struct {
	// Step is the p increment between sweep iterations. Range: (0, 1].
	Step float64 `json:"step" yaml:"step"`

	// Seed keys threshold generation. 0 draws a seed from the clock;
	// the drawn value is echoed so the run can be replayed.
	Seed uint64 `json:"seed" yaml:"seed"`

	// Trials is the number of independent runs in a batch.
	Trials int `json:"trials" yaml:"trials"`
}

// StoreConfig configures the SQLite run archive.
type StoreConfig struct {
	// Path is the database file location. Supports ${VAR} syntax for env
	// vars. Empty means ~/.siteperc/runs.db.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// LoggingConfig configures siteperc's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "trace" additionally records every sweep iteration to
	// sweep_trace.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Lattice: LatticeConfig{
			Side: 50,
		},
		Sweep: SweepConfig{
			Step:   0.01,
			Seed:   0,
			Trials: 10,
		},
		Store: StoreConfig{
			Path: "",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultStorePath returns the run archive location used when no explicit
// path is configured.
func DefaultStorePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(homeDir, ".siteperc", "runs.db"), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.siteperc/config.yaml -> environment variables
func Load() (*Config, error) {
	config := Default()

	// Try to load from default config file
	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".siteperc", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Expand environment variables in the store path
	config.Store.Path = expandEnvVars(config.Store.Path)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Lattice.Side < 2 {
		return fmt.Errorf("lattice side must be at least 2, got %d", c.Lattice.Side)
	}

	if c.Sweep.Step <= 0 || c.Sweep.Step > 1 {
		return fmt.Errorf("sweep step must be in (0, 1], got %g", c.Sweep.Step)
	}

	if c.Sweep.Trials < 1 {
		return fmt.Errorf("trials must be at least 1, got %d", c.Sweep.Trials)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("SITEPERC_SIDE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Lattice.Side = n
		}
	}

	if v := os.Getenv("SITEPERC_STEP"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Sweep.Step = f
		}
	}

	if v := os.Getenv("SITEPERC_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.Sweep.Seed = n
		}
	}

	if v := os.Getenv("SITEPERC_TRIALS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Sweep.Trials = n
		}
	}

	if v := os.Getenv("SITEPERC_DB_PATH"); v != "" {
		config.Store.Path = v
	}

	if v := os.Getenv("SITEPERC_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
