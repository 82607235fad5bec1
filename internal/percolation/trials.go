package percolation

import (
	"fmt"
	"math"

	"github.com/mtoledo/siteperc/internal/lattice"
)

// Trial summarizes one complete sweep within a batch: the seed that
// produced its thresholds, whether it percolated and at which p, and the
// curve's final observation.
type Trial struct {
	Seed       uint64  `json:"seed"`
	Percolated bool    `json:"percolated"`
	PC         float64 `json:"p_c"`
	FinalNcc   int     `json:"final_ncc"`
	FinalSmax  int     `json:"final_smax"`
	FinalNmax  float64 `json:"final_nmax"`
}

// TrialsResult aggregates a batch of independent sweeps. The critical-p
// statistics cover percolated trials only; when none percolated they are
// all zero.
type TrialsResult struct {
	Trials     []Trial `json:"trials"`
	Percolated int     `json:"percolated"`
	MeanPC     float64 `json:"mean_p_c"`
	StdDevPC   float64 `json:"stddev_p_c"`
	MinPC      float64 `json:"min_p_c"`
	MaxPC      float64 `json:"max_p_c"`
}

// RunTrials performs trials independent sweeps over the same lattice, each
// with a fresh engine and a fresh threshold configuration. Trial i draws
// its thresholds from seed+i, so a whole batch is reproducible from the one
// base seed. A zero seed is resolved from the clock first.
func RunTrials(lat *lattice.Lattice, step float64, trials int, seed uint64) (*TrialsResult, error) {
	if trials < 1 {
		return nil, fmt.Errorf("trials must be positive, got %d", trials)
	}
	seed = ResolveSeed(seed)

	edges := lat.Edges()
	result := &TrialsResult{Trials: make([]Trial, 0, trials)}
	var pcs []float64

	for i := 0; i < trials; i++ {
		trialSeed := seed + uint64(i)
		thresholds := GenerateThresholds(lat.Nodes(), trialSeed)

		engine := NewEngine(lat.Nodes())
		sweep, err := engine.Sweep(edges, thresholds, SweepOptions{Step: step})
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}

		last := sweep.Points[len(sweep.Points)-1]
		result.Trials = append(result.Trials, Trial{
			Seed:       trialSeed,
			Percolated: sweep.Percolated,
			PC:         sweep.PC,
			FinalNcc:   last.Ncc,
			FinalSmax:  last.Smax,
			FinalNmax:  last.Nmax,
		})
		if sweep.Percolated {
			result.Percolated++
			pcs = append(pcs, sweep.PC)
		}
	}

	if len(pcs) > 0 {
		minPC, maxPC := pcs[0], pcs[0]
		sum := 0.0
		for _, pc := range pcs {
			sum += pc
			if pc < minPC {
				minPC = pc
			}
			if pc > maxPC {
				maxPC = pc
			}
		}
		mean := sum / float64(len(pcs))

		var squares float64
		for _, pc := range pcs {
			d := pc - mean
			squares += d * d
		}

		result.MeanPC = mean
		result.StdDevPC = math.Sqrt(squares / float64(len(pcs)))
		result.MinPC = minPC
		result.MaxPC = maxPC
	}

	return result, nil
}
