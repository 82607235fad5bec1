package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/mtoledo/siteperc/internal/lattice"
	"github.com/mtoledo/siteperc/internal/percolation"
)

// Defaults applied when a tool argument is omitted.
const (
	defaultSide   = 50
	defaultStep   = 0.01
	defaultTrials = 10
)

// registerTools registers the simulation tools with the server.
func (s *Server) registerTools() error {
	// Register percolation_sweep tool
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "percolation_sweep",
		Description: "Run one site-percolation sweep on a square lattice: random thresholds, p from 0 to 1, reporting the critical occupation probability and cluster statistics",
	}, s.handleSweep)

	// Register percolation_trials tool
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "percolation_trials",
		Description: "Run repeated site-percolation sweeps with independent thresholds and aggregate the critical probability (mean, spread, percolation fraction)",
	}, s.handleTrials)

	return nil
}

// sweepParams validates and defaults the shared side/step arguments.
func sweepParams(side int, step float64) (int, float64, error) {
	if side == 0 {
		side = defaultSide
	}
	if step == 0 {
		step = defaultStep
	}
	if side < 2 {
		return 0, 0, fmt.Errorf("side must be at least 2, got %d", side)
	}
	if step <= 0 || step > 1 {
		return 0, 0, fmt.Errorf("step must be in (0, 1], got %g", step)
	}
	return side, step, nil
}

// handleSweep runs a single sweep and reports the resulting curve summary.
func (s *Server) handleSweep(ctx context.Context, req *sdk.CallToolRequest, args SweepInput) (*sdk.CallToolResult, SweepOutput, error) {
	side, step, err := sweepParams(args.Side, args.Step)
	if err != nil {
		return nil, SweepOutput{}, err
	}

	lat, err := lattice.New(side)
	if err != nil {
		return nil, SweepOutput{}, fmt.Errorf("failed to build lattice: %w", err)
	}

	seed := percolation.ResolveSeed(args.Seed)
	thresholds := percolation.GenerateThresholds(lat.Nodes(), seed)

	engine := percolation.NewEngine(lat.Nodes())
	res, err := engine.Sweep(lat.Edges(), thresholds, percolation.SweepOptions{Step: step})
	if err != nil {
		return nil, SweepOutput{}, fmt.Errorf("sweep failed: %w", err)
	}

	final := res.Points[len(res.Points)-1]
	out := SweepOutput{
		Side:       side,
		Nodes:      lat.Nodes(),
		Step:       step,
		Seed:       seed,
		Percolated: res.Percolated,
		CriticalP:  res.PC,
		FinalNcc:   final.Ncc,
		FinalSmax:  final.Smax,
		FinalNmax:  final.Nmax,
	}
	if args.IncludeCurve {
		out.Points = res.Points
	}

	return nil, out, nil
}

// handleTrials runs repeated sweeps and reports aggregate statistics.
func (s *Server) handleTrials(ctx context.Context, req *sdk.CallToolRequest, args TrialsInput) (*sdk.CallToolResult, TrialsOutput, error) {
	side, step, err := sweepParams(args.Side, args.Step)
	if err != nil {
		return nil, TrialsOutput{}, err
	}

	trials := args.Trials
	if trials == 0 {
		trials = defaultTrials
	}
	if trials < 1 {
		return nil, TrialsOutput{}, fmt.Errorf("trials must be at least 1, got %d", trials)
	}

	lat, err := lattice.New(side)
	if err != nil {
		return nil, TrialsOutput{}, fmt.Errorf("failed to build lattice: %w", err)
	}

	seed := percolation.ResolveSeed(args.Seed)
	res, err := percolation.RunTrials(lat, step, trials, seed)
	if err != nil {
		return nil, TrialsOutput{}, fmt.Errorf("trials failed: %w", err)
	}

	return nil, TrialsOutput{
		Side:       side,
		Nodes:      lat.Nodes(),
		Step:       step,
		Trials:     trials,
		Seed:       seed,
		Percolated: res.Percolated,
		MeanPC:     res.MeanPC,
		StdDevPC:   res.StdDevPC,
		MinPC:      res.MinPC,
		MaxPC:      res.MaxPC,
	}, nil
}
