package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mtoledo/siteperc/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage siteperc configuration",
		Long: `View and modify siteperc configuration settings.

Configuration is stored in ~/.siteperc/config.yaml.

Examples:
  siteperc config list                 # Show all settings
  siteperc config get sweep.step       # Get a specific setting
  siteperc config set lattice.side 100 # Set a setting`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
	)

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(cfg)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Configuration (~/.siteperc/config.yaml):")
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Lattice Settings:")
			fmt.Fprintf(w, "  lattice.side:   %d\n", cfg.Lattice.Side)
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Sweep Settings:")
			fmt.Fprintf(w, "  sweep.step:     %g\n", cfg.Sweep.Step)
			fmt.Fprintf(w, "  sweep.seed:     %d\n", cfg.Sweep.Seed)
			fmt.Fprintf(w, "  sweep.trials:   %d\n", cfg.Sweep.Trials)
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Store Settings:")
			fmt.Fprintf(w, "  store.path:     %s\n", valueOrDefault(cfg.Store.Path, "(default: ~/.siteperc/runs.db)"))
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Logging Settings:")
			fmt.Fprintf(w, "  logging.level:  %s\n", valueOrDefault(cfg.Logging.Level, "(default: info)"))

			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			value, found := getConfigValue(cfg, key)
			if !found {
				if jsonOut {
					json.NewEncoder(os.Stdout).Encode(map[string]any{
						"error": "key not found",
						"key":   key,
					})
				} else {
					fmt.Printf("Unknown configuration key: %s\n", key)
				}
				return nil
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]any{
					"key":   key,
					"value": value,
				})
			} else {
				fmt.Printf("%s = %v\n", key, value)
			}

			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]
			value := args[1]

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if err := setConfigValue(cfg, key, value); err != nil {
				if jsonOut {
					json.NewEncoder(os.Stdout).Encode(map[string]any{
						"error": err.Error(),
						"key":   key,
					})
				} else {
					fmt.Printf("Error: %v\n", err)
				}
				return nil
			}

			// Save the config
			if err := saveConfig(cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]any{
					"status": "updated",
					"key":    key,
					"value":  value,
				})
			} else {
				fmt.Printf("Set %s = %s\n", key, value)
			}

			return nil
		},
	}
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (any, bool) {
	switch key {
	case "lattice.side":
		return cfg.Lattice.Side, true
	case "sweep.step":
		return cfg.Sweep.Step, true
	case "sweep.seed":
		return cfg.Sweep.Seed, true
	case "sweep.trials":
		return cfg.Sweep.Trials, true
	case "store.path":
		return cfg.Store.Path, true
	case "logging.level":
		return cfg.Logging.Level, true
	default:
		return nil, false
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "lattice.side":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid side: %s (must be an integer)", value)
		}
		if n < 2 {
			return fmt.Errorf("side must be at least 2, got %d", n)
		}
		cfg.Lattice.Side = n
	case "sweep.step":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid step: %s (must be a number)", value)
		}
		if f <= 0 || f > 1 {
			return fmt.Errorf("step must be in (0, 1], got %g", f)
		}
		cfg.Sweep.Step = f
	case "sweep.seed":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed: %s (must be a non-negative integer)", value)
		}
		cfg.Sweep.Seed = n
	case "sweep.trials":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid trials: %s (must be an integer)", value)
		}
		if n < 1 {
			return fmt.Errorf("trials must be at least 1, got %d", n)
		}
		cfg.Sweep.Trials = n
	case "store.path":
		cfg.Store.Path = value
	case "logging.level":
		validLevels := map[string]bool{"": true, "info": true, "debug": true, "trace": true}
		if !validLevels[value] {
			return fmt.Errorf("invalid level: %s (valid: info, debug, trace)", value)
		}
		cfg.Logging.Level = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// saveConfig writes the configuration to ~/.siteperc/config.yaml.
func saveConfig(cfg *config.Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".siteperc")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create .siteperc directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// valueOrDefault returns the value if non-empty, otherwise the default.
func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
