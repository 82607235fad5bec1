package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mtoledo/siteperc/internal/lattice"
	"github.com/mtoledo/siteperc/internal/logging"
	"github.com/mtoledo/siteperc/internal/percolation"
	"github.com/mtoledo/siteperc/internal/store"
	"github.com/spf13/cobra"
)

func newTrialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trials",
		Short: "Run repeated sweeps and aggregate the critical probability",
		Long: `Run several independent sweeps over the same lattice, each with its own
threshold configuration, and aggregate the observed critical probability
(mean, spread, percolation fraction). Trial i draws thresholds from
seed+i, so a whole batch is reproducible from one seed.

Example:
  siteperc trials --side 50 --trials 20 --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			save, _ := cmd.Flags().GetBool("save")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)

			lat, err := lattice.New(cfg.Lattice.Side)
			if err != nil {
				return fmt.Errorf("failed to build lattice: %w", err)
			}

			seed := percolation.ResolveSeed(cfg.Sweep.Seed)

			logger.Debug("starting trials",
				"side", lat.Side(), "trials", cfg.Sweep.Trials,
				"step", cfg.Sweep.Step, "seed", seed)

			res, err := percolation.RunTrials(lat, cfg.Sweep.Step, cfg.Sweep.Trials, seed)
			if err != nil {
				return fmt.Errorf("trials failed: %w", err)
			}

			if save {
				st, err := openStore(cfg)
				if err != nil {
					return fmt.Errorf("failed to open store: %w", err)
				}
				defer st.Close()

				for _, trial := range res.Trials {
					_, err := st.SaveRun(context.Background(), store.Run{
						Side:       lat.Side(),
						Nodes:      lat.Nodes(),
						Step:       cfg.Sweep.Step,
						Seed:       trial.Seed,
						Percolated: trial.Percolated,
						PC:         trial.PC,
						FinalNcc:   trial.FinalNcc,
						FinalSmax:  trial.FinalSmax,
						FinalNmax:  trial.FinalNmax,
					}, nil)
					if err != nil {
						return fmt.Errorf("failed to save trial with seed %d: %w", trial.Seed, err)
					}
				}
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"side":       lat.Side(),
					"nodes":      lat.Nodes(),
					"step":       cfg.Sweep.Step,
					"seed":       seed,
					"trials":     len(res.Trials),
					"percolated": res.Percolated,
					"mean_p_c":   res.MeanPC,
					"stddev_p_c": res.StdDevPC,
					"min_p_c":    res.MinPC,
					"max_p_c":    res.MaxPC,
				})
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Trials:     %d on a %dx%d lattice (step %g, seed %d)\n",
				len(res.Trials), lat.Side(), lat.Side(), cfg.Sweep.Step, seed)
			fmt.Fprintf(w, "Percolated: %d/%d\n", res.Percolated, len(res.Trials))
			if res.Percolated > 0 {
				fmt.Fprintf(w, "Mean p_c:   %g (stddev %g)\n", res.MeanPC, res.StdDevPC)
				fmt.Fprintf(w, "Range:      [%g, %g]\n", res.MinPC, res.MaxPC)
			}
			if save {
				fmt.Fprintf(w, "Saved %d runs\n", len(res.Trials))
			}

			return nil
		},
	}

	cmd.Flags().Int("side", 0, "Lattice side length")
	cmd.Flags().Float64("step", 0, "p increment per sweep iteration")
	cmd.Flags().Uint64("seed", 0, "Base RNG seed; trial i uses seed+i (0 = time-derived)")
	cmd.Flags().Int("trials", 0, "Number of independent trials")
	cmd.Flags().Bool("save", false, "Archive every trial in the store")

	return cmd
}
