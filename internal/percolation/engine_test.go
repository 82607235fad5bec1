package percolation

import (
	"errors"
	"testing"

	"github.com/mtoledo/siteperc/internal/lattice"
)

// buildLattice is a test helper that constructs a lattice and fails the
// test on error.
func buildLattice(t *testing.T, side int) *lattice.Lattice {
	t.Helper()
	lat, err := lattice.New(side)
	if err != nil {
		t.Fatalf("lattice.New(%d): %v", side, err)
	}
	return lat
}

// step is a test helper that advances the engine and fails the test on
// error.
func step(t *testing.T, e *Engine, lat *lattice.Lattice, thresholds []float64, p float64) int {
	t.Helper()
	ncc, err := e.Step(lat.Edges(), thresholds, p)
	if err != nil {
		t.Fatalf("Step(p=%g): %v", p, err)
	}
	return ncc
}

func TestEngine_FreshState(t *testing.T) {
	e := NewEngine(9)

	if e.Nodes() != 9 {
		t.Errorf("expected 9 nodes, got %d", e.Nodes())
	}
	if e.CurrentP() != 0 {
		t.Errorf("expected current p 0, got %g", e.CurrentP())
	}
	if e.LargestCluster() != 1 {
		t.Errorf("expected largest cluster 1, got %d", e.LargestCluster())
	}
	if e.ActiveCount() != 0 {
		t.Errorf("expected no active nodes, got %d", e.ActiveCount())
	}
	if e.Components() != 9 {
		t.Errorf("expected 9 singleton components, got %d", e.Components())
	}
}

func TestEngine_BoundaryWiringAloneDoesNotPercolate(t *testing.T) {
	e := NewEngine(9)

	e.InitializeBoundaries()
	if e.HasPercolation() {
		t.Error("expected no percolation before any step")
	}

	// Repeat wiring must be harmless.
	e.InitializeBoundaries()
	if e.HasPercolation() {
		t.Error("expected no percolation after repeated boundary wiring")
	}
}

func TestEngine_TwoByTwoScenario(t *testing.T) {
	// 2x2 grid, node layout:
	//   0 1   (top row)
	//   2 3   (bottom row)
	// Thresholds pick out nodes 0 and 2 early, 3 and 1 only at p=1.
	lat := buildLattice(t, 2)
	thresholds := []float64{0.1, 0.9, 0.2, 0.8}

	e := NewEngine(lat.Nodes())
	e.InitializeBoundaries()

	// p=0: nothing active yet.
	if ncc := step(t, e, lat, thresholds, 0.0); ncc != 4 {
		t.Errorf("p=0: expected Ncc=4, got %d", ncc)
	}
	if e.LargestCluster() != 1 {
		t.Errorf("p=0: expected Smax=1, got %d", e.LargestCluster())
	}
	if e.HasPercolation() {
		t.Error("p=0: expected no percolation")
	}

	// p=0.25: nodes 0 and 2 activate and edge (0,2) merges them. That edge
	// runs top row to bottom row, so the boundary set links its virtual
	// nodes here as well.
	if ncc := step(t, e, lat, thresholds, 0.25); ncc != 3 {
		t.Errorf("p=0.25: expected Ncc=3, got %d", ncc)
	}
	if e.LargestCluster() != 2 {
		t.Errorf("p=0.25: expected Smax=2, got %d", e.LargestCluster())
	}
	if e.ActiveCount() != 2 {
		t.Errorf("p=0.25: expected 2 active nodes, got %d", e.ActiveCount())
	}
	if !e.HasPercolation() {
		t.Error("p=0.25: expected percolation via the 0-2 column")
	}

	// p=0.5 and p=0.75: no new activations, state holds.
	if ncc := step(t, e, lat, thresholds, 0.5); ncc != 3 {
		t.Errorf("p=0.5: expected Ncc=3, got %d", ncc)
	}
	if ncc := step(t, e, lat, thresholds, 0.75); ncc != 3 {
		t.Errorf("p=0.75: expected Ncc=3, got %d", ncc)
	}
	if e.LargestCluster() != 2 {
		t.Errorf("p=0.75: expected Smax=2, got %d", e.LargestCluster())
	}

	// p=1: everything active, one component.
	if ncc := step(t, e, lat, thresholds, 1.0); ncc != 1 {
		t.Errorf("p=1: expected Ncc=1, got %d", ncc)
	}
	if e.LargestCluster() != 4 {
		t.Errorf("p=1: expected Smax=4, got %d", e.LargestCluster())
	}
	if !e.HasPercolation() {
		t.Error("p=1: expected percolation to persist")
	}
}

func TestEngine_StepIdempotentAtSameP(t *testing.T) {
	lat := buildLattice(t, 3)
	thresholds := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}

	e := NewEngine(lat.Nodes())
	e.InitializeBoundaries()

	first := step(t, e, lat, thresholds, 0.5)
	smax := e.LargestCluster()
	active := e.ActiveCount()
	ids := e.ClusterIDs()

	second := step(t, e, lat, thresholds, 0.5)
	if second != first {
		t.Errorf("expected Ncc unchanged on repeat, got %d then %d", first, second)
	}
	if e.LargestCluster() != smax {
		t.Errorf("expected Smax unchanged on repeat, got %d then %d", smax, e.LargestCluster())
	}
	if e.ActiveCount() != active {
		t.Errorf("expected active count unchanged on repeat, got %d then %d", active, e.ActiveCount())
	}
	for i, id := range e.ClusterIDs() {
		if id != ids[i] {
			t.Fatalf("expected cluster ids unchanged on repeat, node %d moved %d -> %d", i, ids[i], id)
		}
	}
}

func TestEngine_StepRejectsDecreasingP(t *testing.T) {
	lat := buildLattice(t, 3)
	thresholds := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}

	e := NewEngine(lat.Nodes())
	e.InitializeBoundaries()
	last := step(t, e, lat, thresholds, 0.6)
	active := e.ActiveCount()

	ncc, err := e.Step(lat.Edges(), thresholds, 0.3)
	if !errors.Is(err, ErrDecreasingP) {
		t.Fatalf("expected ErrDecreasingP, got %v", err)
	}
	if ncc != last {
		t.Errorf("expected last Ncc %d alongside the error, got %d", last, ncc)
	}
	if e.CurrentP() != 0.6 {
		t.Errorf("expected current p to stay 0.6, got %g", e.CurrentP())
	}
	if e.ActiveCount() != active {
		t.Errorf("expected active count to stay %d, got %d", active, e.ActiveCount())
	}
}

func TestEngine_StepRejectsThresholdMismatch(t *testing.T) {
	lat := buildLattice(t, 3)

	e := NewEngine(lat.Nodes())
	if _, err := e.Step(lat.Edges(), []float64{0.1, 0.2}, 0.5); err == nil {
		t.Fatal("expected error for short thresholds slice")
	}
	if e.CurrentP() != 0 {
		t.Errorf("expected current p untouched after rejected step, got %g", e.CurrentP())
	}
}

func TestEngine_StepRejectsOutOfRangeEdge(t *testing.T) {
	e := NewEngine(4)
	thresholds := []float64{0.1, 0.2, 0.3, 0.4}
	edges := []lattice.Edge{{U: 0, V: 99}}

	if _, err := e.Step(edges, thresholds, 0.5); err == nil {
		t.Fatal("expected error for out-of-range edge endpoint")
	}
	if e.CurrentP() != 0 {
		t.Errorf("expected current p untouched after rejected step, got %g", e.CurrentP())
	}
	if e.ActiveCount() != 0 {
		t.Errorf("expected no activations after rejected step, got %d", e.ActiveCount())
	}
}

func TestEngine_PercolationThroughSingleColumn(t *testing.T) {
	// 3x3 grid where only the left column (0, 3, 6) activates early. The
	// column alone spans top to bottom.
	lat := buildLattice(t, 3)
	thresholds := []float64{0.1, 0.9, 0.9, 0.1, 0.9, 0.9, 0.1, 0.9, 0.9}

	e := NewEngine(lat.Nodes())
	e.InitializeBoundaries()

	step(t, e, lat, thresholds, 0.2)
	if !e.HasPercolation() {
		t.Error("expected percolation through the left column")
	}
	if e.LargestCluster() != 3 {
		t.Errorf("expected largest cluster 3, got %d", e.LargestCluster())
	}

	// Still a single spanning cluster plus six singletons.
	if got := e.Components(); got != 7 {
		t.Errorf("expected 7 components, got %d", got)
	}
}

func TestEngine_LargestClusterMatchesExhaustiveScan(t *testing.T) {
	lat := buildLattice(t, 6)
	thresholds := GenerateThresholds(lat.Nodes(), 12345)

	e := NewEngine(lat.Nodes())
	e.InitializeBoundaries()

	for p := 0.0; p <= 1.0+sweepEpsilon; p += 0.05 {
		step(t, e, lat, thresholds, p)

		exhaustive := 1
		for i := 0; i < lat.Nodes(); i++ {
			if s := e.clusters.Size(i); s > exhaustive {
				exhaustive = s
			}
		}
		if e.LargestCluster() != exhaustive {
			t.Fatalf("p=%g: incremental Smax %d != exhaustive max %d", p, e.LargestCluster(), exhaustive)
		}
	}
}

func TestEngine_ClusterIDs(t *testing.T) {
	lat := buildLattice(t, 2)
	thresholds := []float64{0.1, 0.9, 0.2, 0.8}

	e := NewEngine(lat.Nodes())
	e.InitializeBoundaries()
	step(t, e, lat, thresholds, 0.25)

	ids := e.ClusterIDs()
	if len(ids) != 4 {
		t.Fatalf("expected 4 cluster ids, got %d", len(ids))
	}
	if ids[0] != ids[2] {
		t.Errorf("expected nodes 0 and 2 to share a representative, got %d and %d", ids[0], ids[2])
	}
	if ids[1] != 1 || ids[3] != 3 {
		t.Errorf("expected inactive nodes to stay singletons, got ids %v", ids)
	}
}
