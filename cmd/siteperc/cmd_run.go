package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mtoledo/siteperc/internal/lattice"
	"github.com/mtoledo/siteperc/internal/logging"
	"github.com/mtoledo/siteperc/internal/percolation"
	"github.com/mtoledo/siteperc/internal/report"
	"github.com/mtoledo/siteperc/internal/store"
	"github.com/mtoledo/siteperc/internal/visualization"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one percolation sweep",
		Long: `Run a single sweep of the occupation probability from 0 to 1.

Thresholds are drawn once from the seed. Each step activates the sites
with threshold <= p, merges clusters across lattice edges and observes
Ncc (components), Smax (largest cluster) and Nmax (largest fraction).

Example:
  siteperc run --side 100 --step 0.005 --seed 42 --csv ./out --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			csvDir, _ := cmd.Flags().GetString("csv")
			withClusters, _ := cmd.Flags().GetBool("clusters")
			arrowPath, _ := cmd.Flags().GetString("arrow")
			svgPath, _ := cmd.Flags().GetString("svg")
			save, _ := cmd.Flags().GetBool("save")

			if withClusters && csvDir == "" {
				return fmt.Errorf("--clusters requires --csv")
			}

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
			thresholds := percolation.GenerateThresholds(lat.Nodes(), seed)

			logger.Debug("starting sweep",
				"side", lat.Side(), "nodes", lat.Nodes(),
				"step", cfg.Sweep.Step, "seed", seed)

			// Assemble recorders for the requested outputs.
			var recorders []percolation.Recorder
			var closers []func() error

			if csvDir != "" {
				if withClusters {
					rec, err := report.NewClusterCSVRecorder(csvDir, lat.Nodes())
					if err != nil {
						return fmt.Errorf("failed to open CSV report: %w", err)
					}
					recorders = append(recorders, rec)
					closers = append(closers, rec.Close)
				} else {
					rec, err := report.NewCSVRecorder(csvDir)
					if err != nil {
						return fmt.Errorf("failed to open CSV report: %w", err)
					}
					recorders = append(recorders, rec)
					closers = append(closers, rec.Close)
				}
			}

			var frames *visualization.FrameRecorder
			if svgPath != "" {
				frames = visualization.NewFrameRecorder()
				recorders = append(recorders, frames)
			}

			var recorder percolation.Recorder
			switch len(recorders) {
			case 0:
			case 1:
				recorder = recorders[0]
			default:
				recorder = report.NewMultiRecorder(recorders...)
			}

			traceDir := csvDir
			if traceDir == "" {
				traceDir = "."
			}
			traceLog := logging.NewTraceLogger(traceDir, cfg.Logging.Level)
			defer traceLog.Close()

			engine := percolation.NewEngine(lat.Nodes())
			res, sweepErr := engine.Sweep(lat.Edges(), thresholds, percolation.SweepOptions{
				Step:     cfg.Sweep.Step,
				Recorder: recorder,
				OnPoint: func(pt percolation.Point) {
					traceLog.Log(map[string]any{
						"event":  "sweep_point",
						"p":      pt.P,
						"ncc":    pt.Ncc,
						"smax":   pt.Smax,
						"nmax":   pt.Nmax,
						"active": engine.ActiveCount(),
					})
				},
				OnPercolation: func(p float64) {
					if !jsonOut {
						fmt.Fprintf(cmd.OutOrStdout(), "Percolation detected at p = %g\n", p)
					}
				},
			})

			// Close recorders before reporting so files are flushed.
			for _, c := range closers {
				if cerr := c(); cerr != nil && sweepErr == nil {
					sweepErr = cerr
				}
			}
			if sweepErr != nil {
				return sweepErr
			}

			final := res.Points[len(res.Points)-1]

			if arrowPath != "" {
				if err := report.WriteArrow(arrowPath, res.Points); err != nil {
					return err
				}
			}

			if svgPath != "" {
				frameList := frames.Frames()
				svg, err := visualization.RenderSVG(
					&visualization.RunData{Side: lat.Side(), Nodes: lat.Nodes()},
					frameList[len(frameList)-1])
				if err != nil {
					return fmt.Errorf("failed to render SVG: %w", err)
				}
				if err := os.WriteFile(svgPath, svg, 0644); err != nil {
					return fmt.Errorf("failed to write SVG: %w", err)
				}
			}

			var runID int64
			if save {
				st, err := openStore(cfg)
				if err != nil {
					return fmt.Errorf("failed to open store: %w", err)
				}
				defer st.Close()

				runID, err = st.SaveRun(context.Background(), store.Run{
					Side:       lat.Side(),
					Nodes:      lat.Nodes(),
					Step:       cfg.Sweep.Step,
					Seed:       seed,
					Percolated: res.Percolated,
					PC:         res.PC,
					FinalNcc:   final.Ncc,
					FinalSmax:  final.Smax,
					FinalNmax:  final.Nmax,
				}, res.Points)
				if err != nil {
					return fmt.Errorf("failed to save run: %w", err)
				}
			}

			logger.Debug("sweep finished",
				"points", len(res.Points), "percolated", res.Percolated, "p_c", res.PC)

			if jsonOut {
				out := map[string]any{
					"side":       lat.Side(),
					"nodes":      lat.Nodes(),
					"step":       cfg.Sweep.Step,
					"seed":       seed,
					"percolated": res.Percolated,
					"p_c":        res.PC,
					"final_ncc":  final.Ncc,
					"final_smax": final.Smax,
					"final_nmax": final.Nmax,
				}
				if save {
					out["run_id"] = runID
				}
				return json.NewEncoder(os.Stdout).Encode(out)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Lattice:     %dx%d (%d nodes)\n", lat.Side(), lat.Side(), lat.Nodes())
			fmt.Fprintf(w, "Step:        %g\n", cfg.Sweep.Step)
			fmt.Fprintf(w, "Seed:        %d\n", seed)
			if res.Percolated {
				fmt.Fprintf(w, "p_c:         %g\n", res.PC)
			} else {
				fmt.Fprintf(w, "p_c:         (no spanning cluster)\n")
			}
			fmt.Fprintf(w, "Final state: Ncc=%d Smax=%d Nmax=%g\n", final.Ncc, final.Smax, final.Nmax)
			if save {
				fmt.Fprintf(w, "Saved as run %d\n", runID)
			}

			return nil
		},
	}

	cmd.Flags().Int("side", 0, "Lattice side length")
	cmd.Flags().Float64("step", 0, "p increment per sweep iteration")
	cmd.Flags().Uint64("seed", 0, "Threshold RNG seed (0 = time-derived)")
	cmd.Flags().String("csv", "", "Directory for the CSV report")
	cmd.Flags().Bool("clusters", false, "Also write the per-node cluster table (requires --csv)")
	cmd.Flags().String("arrow", "", "File for the Arrow IPC curve export")
	cmd.Flags().String("svg", "", "File for an SVG cluster map of the final state")
	cmd.Flags().Bool("save", false, "Archive the run in the store")

	return cmd
}
