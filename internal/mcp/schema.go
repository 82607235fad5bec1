package mcp

import (
	"github.com/mtoledo/siteperc/internal/percolation"
)

// SweepInput defines the input for the percolation_sweep tool.
type SweepInput struct {
	Side         int     `json:"side,omitempty" jsonschema:"description=Lattice side length (default: 50)"`
	Step         float64 `json:"step,omitempty" jsonschema:"description=Occupation probability increment per step (default: 0.01)"`
	Seed         uint64  `json:"seed,omitempty" jsonschema:"description=Threshold RNG seed; 0 means time-derived"`
	IncludeCurve bool    `json:"include_curve,omitempty" jsonschema:"description=Include the full per-step curve in the output (default: false)"`
}

// SweepOutput defines the output for the percolation_sweep tool.
type SweepOutput struct {
	Side       int                 `json:"side"`
	Nodes      int                 `json:"nodes"`
	Step       float64             `json:"step"`
	Seed       uint64              `json:"seed" jsonschema:"description=Seed actually used (resolved when the input seed is 0)"`
	Percolated bool                `json:"percolated" jsonschema:"description=Whether a top-bottom spanning cluster appeared"`
	CriticalP  float64             `json:"critical_p" jsonschema:"description=Lowest p with a spanning cluster; 0 if none appeared"`
	FinalNcc   int                 `json:"final_ncc" jsonschema:"description=Connected components at p=1"`
	FinalSmax  int                 `json:"final_smax" jsonschema:"description=Largest cluster size at p=1"`
	FinalNmax  float64             `json:"final_nmax" jsonschema:"description=Largest cluster fraction at p=1"`
	Points     []percolation.Point `json:"points,omitempty" jsonschema:"description=Per-step curve (present only when include_curve is set)"`
}

// TrialsInput defines the input for the percolation_trials tool.
type TrialsInput struct {
	Side   int     `json:"side,omitempty" jsonschema:"description=Lattice side length (default: 50)"`
	Step   float64 `json:"step,omitempty" jsonschema:"description=Occupation probability increment per step (default: 0.01)"`
	Trials int     `json:"trials,omitempty" jsonschema:"description=Number of independent threshold configurations (default: 10)"`
	Seed   uint64  `json:"seed,omitempty" jsonschema:"description=Base RNG seed; trial i uses seed+i; 0 means time-derived"`
}

// TrialsOutput defines the output for the percolation_trials tool.
type TrialsOutput struct {
	Side       int     `json:"side"`
	Nodes      int     `json:"nodes"`
	Step       float64 `json:"step"`
	Trials     int     `json:"trials"`
	Seed       uint64  `json:"seed" jsonschema:"description=Base seed actually used"`
	Percolated int     `json:"percolated" jsonschema:"description=Trials that developed a spanning cluster"`
	MeanPC     float64 `json:"mean_p_c" jsonschema:"description=Mean critical probability over percolated trials"`
	StdDevPC   float64 `json:"stddev_p_c" jsonschema:"description=Population standard deviation of the critical probability"`
	MinPC      float64 `json:"min_p_c"`
	MaxPC      float64 `json:"max_p_c"`
}
