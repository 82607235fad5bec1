package percolation

import (
	"fmt"

	"github.com/mtoledo/siteperc/internal/lattice"
)

// sweepEpsilon pads the sweep's upper bound so accumulated floating-point
// error in p never drops the final point at p = 1.0.
const sweepEpsilon = 1e-10

// Point is one observation of the sweep: the component count, the largest
// cluster size and its fraction of the lattice at occupation probability p.
type Point struct {
	P    float64 `json:"p"`
	Ncc  int     `json:"ncc"`
	Smax int     `json:"smax"`
	Nmax float64 `json:"nmax"`
}

// Recorder receives every point of a sweep as it is produced, before the
// sweep moves on to the next p.
type Recorder interface {
	RecordPoint(pt Point) error
}

// ClusterRecorder is an optional extension of Recorder. When a sweep's
// recorder also implements it, the per-node cluster representatives are
// delivered after each point, in node order.
type ClusterRecorder interface {
	Recorder
	RecordClusters(p float64, clusters []int) error
}

// SweepOptions configures a single sweep.
type SweepOptions struct {
	// Step is the p increment between observations. Must be positive.
	Step float64

	// Recorder, when non-nil, receives every point. A recorder error
	// aborts the sweep.
	Recorder Recorder

	// OnPoint, when non-nil, is called after each point is recorded.
	OnPoint func(pt Point)

	// OnPercolation, when non-nil, is called once, at the first p where a
	// spanning cluster exists.
	OnPercolation func(p float64)
}

// SweepResult is the outcome of a full sweep.
type SweepResult struct {
	Points     []Point `json:"points"`
	Percolated bool    `json:"percolated"`
	PC         float64 `json:"p_c"`
}

// Sweep runs the full percolation curve from p = 0 to p = 1 inclusive in
// increments of opts.Step, wiring the boundary rows first. It resets the
// largest-cluster counter to 1, so a sweep on a fresh engine observes sizes
// from the very first merge.
//
// The first p at which the top and bottom rows are connected is latched as
// the critical threshold: Percolated flips to true, PC is set, and neither
// changes for the rest of the sweep.
func (e *Engine) Sweep(edges []lattice.Edge, thresholds []float64, opts SweepOptions) (*SweepResult, error) {
	if opts.Step <= 0 {
		return nil, fmt.Errorf("sweep step must be positive, got %g", opts.Step)
	}

	clusterRec, wantClusters := opts.Recorder.(ClusterRecorder)

	e.smax = 1
	e.InitializeBoundaries()

	result := &SweepResult{}
	for p := 0.0; p <= 1.0+sweepEpsilon; p += opts.Step {
		ncc, err := e.Step(edges, thresholds, p)
		if err != nil {
			return nil, fmt.Errorf("step at p=%g: %w", p, err)
		}

		pt := Point{
			P:    p,
			Ncc:  ncc,
			Smax: e.smax,
			Nmax: float64(e.smax) / float64(e.n),
		}
		result.Points = append(result.Points, pt)

		if opts.Recorder != nil {
			if err := opts.Recorder.RecordPoint(pt); err != nil {
				return nil, fmt.Errorf("record point at p=%g: %w", p, err)
			}
			if wantClusters {
				if err := clusterRec.RecordClusters(p, e.ClusterIDs()); err != nil {
					return nil, fmt.Errorf("record clusters at p=%g: %w", p, err)
				}
			}
		}
		if opts.OnPoint != nil {
			opts.OnPoint(pt)
		}

		if !result.Percolated && e.HasPercolation() {
			result.Percolated = true
			result.PC = p
			if opts.OnPercolation != nil {
				opts.OnPercolation(p)
			}
		}
	}

	return result, nil
}
