package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	config := Default()

	if config.Lattice.Side != 50 {
		t.Errorf("expected Lattice.Side 50, got %d", config.Lattice.Side)
	}
	if config.Sweep.Step != 0.01 {
		t.Errorf("expected Sweep.Step 0.01, got %g", config.Sweep.Step)
	}
	if config.Sweep.Seed != 0 {
		t.Errorf("expected Sweep.Seed 0, got %d", config.Sweep.Seed)
	}
	if config.Sweep.Trials != 10 {
		t.Errorf("expected Sweep.Trials 10, got %d", config.Sweep.Trials)
	}
	if config.Store.Path != "" {
		t.Errorf("expected empty Store.Path, got '%s'", config.Store.Path)
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", config.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
lattice:
  side: 100

sweep:
  step: 0.005
  seed: 42
  trials: 25

store:
  path: /tmp/perc.db

logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Lattice.Side != 100 {
		t.Errorf("expected Side 100, got %d", config.Lattice.Side)
	}
	if config.Sweep.Step != 0.005 {
		t.Errorf("expected Step 0.005, got %g", config.Sweep.Step)
	}
	if config.Sweep.Seed != 42 {
		t.Errorf("expected Seed 42, got %d", config.Sweep.Seed)
	}
	if config.Sweep.Trials != 25 {
		t.Errorf("expected Trials 25, got %d", config.Sweep.Trials)
	}
	if config.Store.Path != "/tmp/perc.db" {
		t.Errorf("expected Store.Path '/tmp/perc.db', got '%s'", config.Store.Path)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected Logging.Level 'debug', got '%s'", config.Logging.Level)
	}
}

func TestLoadFromFile_PartialKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
lattice:
  side: 20
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Lattice.Side != 20 {
		t.Errorf("expected Side 20, got %d", config.Lattice.Side)
	}
	if config.Sweep.Step != 0.01 {
		t.Errorf("expected default Step 0.01, got %g", config.Sweep.Step)
	}
	if config.Sweep.Trials != 10 {
		t.Errorf("expected default Trials 10, got %d", config.Sweep.Trials)
	}
}

func TestLoadFromFile_EnvExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
store:
  path: ${TEST_PERC_DIR}/runs.db
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	os.Setenv("TEST_PERC_DIR", "/data/perc")
	defer os.Unsetenv("TEST_PERC_DIR")

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Store.Path != "/data/perc/runs.db" {
		t.Errorf("expected Store.Path '/data/perc/runs.db', got '%s'", config.Store.Path)
	}
}

func TestEnvOverrides(t *testing.T) {
	// Save and restore env vars
	origSide := os.Getenv("SITEPERC_SIDE")
	origStep := os.Getenv("SITEPERC_STEP")
	origSeed := os.Getenv("SITEPERC_SEED")
	origTrials := os.Getenv("SITEPERC_TRIALS")
	origPath := os.Getenv("SITEPERC_DB_PATH")
	defer func() {
		os.Setenv("SITEPERC_SIDE", origSide)
		os.Setenv("SITEPERC_STEP", origStep)
		os.Setenv("SITEPERC_SEED", origSeed)
		os.Setenv("SITEPERC_TRIALS", origTrials)
		os.Setenv("SITEPERC_DB_PATH", origPath)
	}()

	os.Setenv("SITEPERC_SIDE", "64")
	os.Setenv("SITEPERC_STEP", "0.02")
	os.Setenv("SITEPERC_SEED", "7")
	os.Setenv("SITEPERC_TRIALS", "3")
	os.Setenv("SITEPERC_DB_PATH", "/tmp/override.db")

	config := Default()
	applyEnvOverrides(config)

	if config.Lattice.Side != 64 {
		t.Errorf("expected Side 64, got %d", config.Lattice.Side)
	}
	if config.Sweep.Step != 0.02 {
		t.Errorf("expected Step 0.02, got %g", config.Sweep.Step)
	}
	if config.Sweep.Seed != 7 {
		t.Errorf("expected Seed 7, got %d", config.Sweep.Seed)
	}
	if config.Sweep.Trials != 3 {
		t.Errorf("expected Trials 3, got %d", config.Sweep.Trials)
	}
	if config.Store.Path != "/tmp/override.db" {
		t.Errorf("expected Store.Path '/tmp/override.db', got '%s'", config.Store.Path)
	}
}

func TestEnvOverrides_LogLevel(t *testing.T) {
	origLogLevel := os.Getenv("SITEPERC_LOG_LEVEL")
	defer os.Setenv("SITEPERC_LOG_LEVEL", origLogLevel)

	os.Setenv("SITEPERC_LOG_LEVEL", "trace")

	config := Default()
	applyEnvOverrides(config)

	if config.Logging.Level != "trace" {
		t.Errorf("expected Logging.Level 'trace', got '%s'", config.Logging.Level)
	}
}

func TestEnvOverrides_IgnoresMalformedNumbers(t *testing.T) {
	origSide := os.Getenv("SITEPERC_SIDE")
	defer os.Setenv("SITEPERC_SIDE", origSide)

	os.Setenv("SITEPERC_SIDE", "not-a-number")

	config := Default()
	applyEnvOverrides(config)

	if config.Lattice.Side != 50 {
		t.Errorf("expected default Side 50 for malformed override, got %d", config.Lattice.Side)
	}
}

func TestValidate_Valid(t *testing.T) {
	config := Default()
	if err := config.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestValidate_InvalidSide(t *testing.T) {
	tests := []struct {
		name string
		side int
	}{
		{"zero", 0},
		{"one", 1},
		{"negative", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			config.Lattice.Side = tt.side
			if err := config.Validate(); err == nil {
				t.Error("expected validation error for invalid side")
			}
		})
	}
}

func TestValidate_InvalidStep(t *testing.T) {
	tests := []struct {
		name string
		step float64
	}{
		{"zero", 0},
		{"negative", -0.1},
		{"greater than 1", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			config.Sweep.Step = tt.step
			if err := config.Validate(); err == nil {
				t.Error("expected validation error for invalid step")
			}
		})
	}
}

func TestValidate_InvalidTrials(t *testing.T) {
	config := Default()
	config.Sweep.Trials = 0
	if err := config.Validate(); err == nil {
		t.Error("expected validation error for zero trials")
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	config := Default()
	config.Logging.Level = "verbose"
	if err := config.Validate(); err == nil {
		t.Error("expected validation error for invalid log level")
	}
}

func TestValidate_ValidLogLevels(t *testing.T) {
	validLevels := []string{"", "info", "debug", "trace"}

	for _, level := range validLevels {
		t.Run(level, func(t *testing.T) {
			config := Default()
			config.Logging.Level = level
			if err := config.Validate(); err != nil {
				t.Errorf("expected log level '%s' to be valid, got error: %v", level, err)
			}
		})
	}
}

func TestLoadFromFile_NotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	invalidYAML := `
lattice:
  side: [invalid yaml
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadFromFile(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}
