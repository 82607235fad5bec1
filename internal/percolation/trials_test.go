package percolation

import "testing"

func TestRunTrials_Deterministic(t *testing.T) {
	lat := buildLattice(t, 4)

	a, err := RunTrials(lat, 0.05, 3, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := RunTrials(lat, 0.05, 3, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(a.Trials) != 3 {
		t.Fatalf("expected 3 trials, got %d", len(a.Trials))
	}
	for i := range a.Trials {
		if a.Trials[i] != b.Trials[i] {
			t.Errorf("trial %d diverged between identical runs: %+v vs %+v", i, a.Trials[i], b.Trials[i])
		}
	}
	if a.MeanPC != b.MeanPC || a.StdDevPC != b.StdDevPC {
		t.Errorf("aggregates diverged between identical runs")
	}
}

func TestRunTrials_SeedsPerTrial(t *testing.T) {
	lat := buildLattice(t, 4)

	result, err := RunTrials(lat, 0.05, 3, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, tr := range result.Trials {
		if want := uint64(100 + i); tr.Seed != want {
			t.Errorf("trial %d: expected seed %d, got %d", i, want, tr.Seed)
		}
	}
}

func TestRunTrials_Aggregates(t *testing.T) {
	lat := buildLattice(t, 5)

	result, err := RunTrials(lat, 0.02, 5, 11)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	percolated := 0
	for i, tr := range result.Trials {
		if tr.Percolated {
			percolated++
			if tr.PC < 0 || tr.PC > 1 {
				t.Errorf("trial %d: p_c=%g outside [0,1]", i, tr.PC)
			}
		}
		// Thresholds live in [0,1); every trial reaches full activation by
		// the last point.
		if tr.FinalNcc != 1 {
			t.Errorf("trial %d: expected final Ncc=1, got %d", i, tr.FinalNcc)
		}
		if tr.FinalSmax != lat.Nodes() {
			t.Errorf("trial %d: expected final Smax=%d, got %d", i, lat.Nodes(), tr.FinalSmax)
		}
	}

	if result.Percolated != percolated {
		t.Errorf("expected %d percolated trials, counter says %d", percolated, result.Percolated)
	}
	if percolated > 0 {
		if result.MinPC > result.MeanPC || result.MeanPC > result.MaxPC {
			t.Errorf("expected min <= mean <= max, got %g / %g / %g", result.MinPC, result.MeanPC, result.MaxPC)
		}
		if result.StdDevPC < 0 {
			t.Errorf("expected non-negative stddev, got %g", result.StdDevPC)
		}
	}
}

func TestRunTrials_ZeroSeedResolves(t *testing.T) {
	lat := buildLattice(t, 3)

	result, err := RunTrials(lat, 0.1, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, tr := range result.Trials {
		if tr.Seed == 0 {
			t.Errorf("trial %d: expected resolved nonzero seed", i)
		}
	}
}

func TestRunTrials_RejectsBadCounts(t *testing.T) {
	lat := buildLattice(t, 3)

	if _, err := RunTrials(lat, 0.1, 0, 1); err == nil {
		t.Error("expected error for zero trials")
	}
	if _, err := RunTrials(lat, 0, 1, 1); err == nil {
		t.Error("expected error for zero step to propagate from the sweep")
	}
}
