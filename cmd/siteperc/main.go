package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mtoledo/siteperc/internal/config"
	"github.com/mtoledo/siteperc/internal/store"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "siteperc",
		Short: "Site percolation simulator on a square lattice",
		Long: `siteperc simulates site percolation: every lattice site gets a random
activation threshold, and as the occupation probability p sweeps from 0
to 1 the active sites merge into clusters.

It tracks the component count, the largest cluster and the first p at
which a cluster spans from the top row to the bottom row (the critical
probability p_c).`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.siteperc/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newTrialsCmd(),
		newRunsCmd(),
		newServeCmd(),
		newMCPServerCmd(),
		newConfigCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("siteperc version %s\n", version)
			}
		},
	}
}

// loadConfig resolves the effective configuration: an explicit --config
// file when given, the default chain otherwise, then any changed
// command-line flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("side") {
		cfg.Lattice.Side, _ = flags.GetInt("side")
	}
	if flags.Changed("step") {
		cfg.Sweep.Step, _ = flags.GetFloat64("step")
	}
	if flags.Changed("seed") {
		cfg.Sweep.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("trials") {
		cfg.Sweep.Trials, _ = flags.GetInt("trials")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore opens the run archive at the configured location.
func openStore(cfg *config.Config) (*store.RunStore, error) {
	path := cfg.Store.Path
	if path == "" {
		var err error
		path, err = config.DefaultStorePath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(path)
}
