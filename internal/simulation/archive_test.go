package simulation_test

import (
	"context"
	"testing"

	"github.com/mtoledo/siteperc/internal/simulation"
)

// TestArchiveRoundTrip validates that archiving a finished sweep loses
// nothing: the reloaded run and curve match the in-memory record exactly,
// including the full float64 precision of every point.
func TestArchiveRoundTrip(t *testing.T) {
	r := simulation.NewRunner(t)

	rec := r.Run(simulation.Scenario{
		Name:    "archived",
		Side:    8,
		Seed:    4242,
		Step:    0.1,
		Archive: true,
	})

	simulation.AssertArchiveRoundTrip(t, rec)

	if rec.Stored.CreatedAt.IsZero() {
		t.Error("archived run has zero CreatedAt")
	}

	runs, err := r.Store().ListRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("archive holds %d runs, want 1", len(runs))
	}
}

// TestArchiveKeepsRunsSeparate validates that consecutive archived
// scenarios land as distinct runs with their own curves.
func TestArchiveKeepsRunsSeparate(t *testing.T) {
	r := simulation.NewRunner(t)

	first := r.Run(simulation.Scenario{Name: "first", Side: 4, Seed: 1, Step: 0.25, Archive: true})
	second := r.Run(simulation.Scenario{Name: "second", Side: 6, Seed: 2, Step: 0.5, Archive: true})

	if first.Stored.ID == second.Stored.ID {
		t.Fatalf("both scenarios archived as run %d", first.Stored.ID)
	}
	if len(first.StoredPoints) != 5 {
		t.Errorf("first run reloaded %d points, want 5", len(first.StoredPoints))
	}
	if len(second.StoredPoints) != 3 {
		t.Errorf("second run reloaded %d points, want 3", len(second.StoredPoints))
	}
	if second.Stored.Nodes != 36 {
		t.Errorf("second run stored %d nodes, want 36", second.Stored.Nodes)
	}
}
