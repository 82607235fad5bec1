package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/mtoledo/siteperc/internal/store"
	"github.com/spf13/cobra"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived runs",
		Long: `List runs archived with --save, newest first.

Use 'siteperc runs show <id>' for the details of one run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			st, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			runs, err := st.ListRuns(context.Background(), limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"runs":  runs,
					"count": len(runs),
				})
			}

			w := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(w, "No archived runs yet. Run 'siteperc run --save' first.")
				return nil
			}

			fmt.Fprintf(w, "Archived runs (%d):\n\n", len(runs))
			for _, r := range runs {
				pc := "-"
				if r.Percolated {
					pc = strconv.FormatFloat(r.PC, 'g', 6, 64)
				}
				fmt.Fprintf(w, "%d. %s  %dx%d  step %g  seed %d  p_c %s\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"),
					r.Side, r.Side, r.Step, r.Seed, pc)
			}

			return nil
		},
	}

	cmd.Flags().Int("limit", 0, "Maximum runs to list (default 50)")

	cmd.AddCommand(newRunsShowCmd())

	return cmd
}

func newRunsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			withCurve, _ := cmd.Flags().GetBool("curve")

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			st, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			run, err := st.GetRun(context.Background(), id)
			if err != nil {
				if errors.Is(err, store.ErrRunNotFound) {
					return fmt.Errorf("run %d not found", id)
				}
				return fmt.Errorf("failed to load run: %w", err)
			}

			points, err := st.GetPoints(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to load points: %w", err)
			}

			if jsonOut {
				out := map[string]any{"run": run}
				if withCurve {
					out["points"] = points
				} else {
					out["point_count"] = len(points)
				}
				return json.NewEncoder(os.Stdout).Encode(out)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Run %d (%s)\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(w, "  Lattice:    %dx%d (%d nodes)\n", run.Side, run.Side, run.Nodes)
			fmt.Fprintf(w, "  Step:       %g\n", run.Step)
			fmt.Fprintf(w, "  Seed:       %d\n", run.Seed)
			if run.Percolated {
				fmt.Fprintf(w, "  p_c:        %g\n", run.PC)
			} else {
				fmt.Fprintf(w, "  p_c:        (no spanning cluster)\n")
			}
			fmt.Fprintf(w, "  Final:      Ncc=%d Smax=%d Nmax=%g\n", run.FinalNcc, run.FinalSmax, run.FinalNmax)
			fmt.Fprintf(w, "  Points:     %d\n", len(points))

			if withCurve {
				fmt.Fprintln(w)
				fmt.Fprintln(w, "  p\tNcc\tSmax\tNmax")
				for _, pt := range points {
					fmt.Fprintf(w, "  %g\t%d\t%d\t%g\n", pt.P, pt.Ncc, pt.Smax, pt.Nmax)
				}
			}

			return nil
		},
	}

	cmd.Flags().Bool("curve", false, "Include the full sweep curve")

	return cmd
}
