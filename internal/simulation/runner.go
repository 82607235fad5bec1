package simulation

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mtoledo/siteperc/internal/lattice"
	"github.com/mtoledo/siteperc/internal/percolation"
	"github.com/mtoledo/siteperc/internal/store"
)

// Runner orchestrates sweep experiments against a real lattice, engine and
// run archive.
type Runner struct {
	t     *testing.T
	store *store.RunStore
}

// NewRunner creates a simulation runner with an isolated SQLite archive.
func NewRunner(t *testing.T) *Runner {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("NewRunner: failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return &Runner{t: t, store: s}
}

// Store exposes the runner's isolated archive for scenarios that need to
// inspect it directly.
func (r *Runner) Store() *store.RunStore {
	return r.store
}

// Run executes the scenario and returns the collected record.
func (r *Runner) Run(scenario Scenario) SweepRecord {
	r.t.Helper()

	lat, err := lattice.New(scenario.Side)
	if err != nil {
		r.t.Fatalf("Run(%s): failed to build lattice: %v", scenario.Name, err)
	}

	seed := scenario.Seed
	thresholds := scenario.Thresholds
	if thresholds == nil {
		seed = percolation.ResolveSeed(seed)
		thresholds = percolation.GenerateThresholds(lat.Nodes(), seed)
	}
	if len(thresholds) != lat.Nodes() {
		r.t.Fatalf("Run(%s): %d thresholds for %d nodes", scenario.Name, len(thresholds), lat.Nodes())
	}

	step := scenario.Step
	if step == 0 {
		step = 0.05
	}

	snap := &capture{}
	engine := percolation.NewEngine(lat.Nodes())
	res, err := engine.Sweep(lat.Edges(), thresholds, percolation.SweepOptions{
		Step:     step,
		Recorder: snap,
	})
	if err != nil {
		r.t.Fatalf("Run(%s): sweep failed: %v", scenario.Name, err)
	}

	rec := SweepRecord{
		Name:       scenario.Name,
		Side:       lat.Side(),
		Nodes:      lat.Nodes(),
		Seed:       seed,
		Step:       step,
		Points:     res.Points,
		Frames:     snap.frames,
		Percolated: res.Percolated,
		PC:         res.PC,
	}

	if scenario.Archive {
		r.archive(scenario.Name, &rec)
	}

	return rec
}

// archive saves the record's run in the isolated store and reloads it.
func (r *Runner) archive(name string, rec *SweepRecord) {
	r.t.Helper()
	ctx := context.Background()

	final := rec.Points[len(rec.Points)-1]
	id, err := r.store.SaveRun(ctx, store.Run{
		Side:       rec.Side,
		Nodes:      rec.Nodes,
		Step:       rec.Step,
		Seed:       rec.Seed,
		Percolated: rec.Percolated,
		PC:         rec.PC,
		FinalNcc:   final.Ncc,
		FinalSmax:  final.Smax,
		FinalNmax:  final.Nmax,
	}, rec.Points)
	if err != nil {
		r.t.Fatalf("Run(%s): failed to save run: %v", name, err)
	}

	stored, err := r.store.GetRun(ctx, id)
	if err != nil {
		r.t.Fatalf("Run(%s): failed to reload run %d: %v", name, id, err)
	}
	points, err := r.store.GetPoints(ctx, id)
	if err != nil {
		r.t.Fatalf("Run(%s): failed to reload points of run %d: %v", name, id, err)
	}

	rec.Stored = stored
	rec.StoredPoints = points
}
