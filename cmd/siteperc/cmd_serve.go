package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mtoledo/siteperc/internal/lattice"
	"github.com/mtoledo/siteperc/internal/percolation"
	"github.com/mtoledo/siteperc/internal/visualization"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a sweep and serve the interactive lattice viewer",
		Long: `Run one sweep with per-step cluster capture and serve the result on a
local HTTP server: a lattice canvas colored by cluster with a slider
over p, plus the summary curve.

Example:
  siteperc serve --side 60 --step 0.02 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			noOpen, _ := cmd.Flags().GetBool("no-open")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			lat, err := lattice.New(cfg.Lattice.Side)
			if err != nil {
				return fmt.Errorf("failed to build lattice: %w", err)
			}

			seed := percolation.ResolveSeed(cfg.Sweep.Seed)
			thresholds := percolation.GenerateThresholds(lat.Nodes(), seed)

			rec := visualization.NewFrameRecorder()
			engine := percolation.NewEngine(lat.Nodes())
			res, err := engine.Sweep(lat.Edges(), thresholds, percolation.SweepOptions{
				Step:     cfg.Sweep.Step,
				Recorder: rec,
			})
			if err != nil {
				return fmt.Errorf("sweep failed: %w", err)
			}

			if res.Percolated {
				fmt.Fprintf(cmd.OutOrStdout(), "Sweep finished, p_c = %g\n", res.PC)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Sweep finished, no spanning cluster")
			}

			run := &visualization.RunData{
				Side:       lat.Side(),
				Nodes:      lat.Nodes(),
				Step:       cfg.Sweep.Step,
				Seed:       seed,
				Percolated: res.Percolated,
				PC:         res.PC,
				Points:     rec.Points(),
				Frames:     rec.Frames(),
			}

			return runViewerServer(cmd, run, noOpen)
		},
	}

	cmd.Flags().Int("side", 0, "Lattice side length")
	cmd.Flags().Float64("step", 0, "p increment per sweep iteration")
	cmd.Flags().Uint64("seed", 0, "Threshold RNG seed (0 = time-derived)")
	cmd.Flags().Bool("no-open", false, "Don't open the browser")

	return cmd
}

// runViewerServer starts a local HTTP server for the run and blocks until Ctrl-C.
func runViewerServer(cmd *cobra.Command, run *visualization.RunData, noOpen bool) error {
	srv := visualization.NewServer(run)

	srvCtx, srvCancel := context.WithCancel(context.Background())
	defer srvCancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			srvCancel()
		case <-srvCtx.Done():
		}
	}()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(srvCtx) }()

	// Wait for server to start
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if srv.Addr() != "" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	addr := srv.Addr()
	if addr == "" {
		return fmt.Errorf("server failed to start")
	}

	url := "http://" + addr
	fmt.Fprintf(cmd.OutOrStdout(), "Viewer running at %s\n", url)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl-C to stop.\n")

	if !noOpen {
		if err := visualization.OpenBrowser(url); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser: %v\nOpen %s manually.\n", err, url)
		}
	}

	// Block until server exits
	if err := <-errCh; err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
