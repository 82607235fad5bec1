package simulation

import (
	"math"
	"testing"
)

// SpanningAt reports whether the cluster snapshot at point index i contains
// a cluster touching both the top and the bottom lattice row. Inactive nodes
// are their own singleton representatives and the two rows are disjoint, so
// a representative appearing in both rows always marks a real spanning
// cluster.
func SpanningAt(rec SweepRecord, i int) bool {
	frame := rec.Frames[i]
	top := make(map[int]bool, rec.Side)
	for col := 0; col < rec.Side; col++ {
		top[frame[col]] = true
	}
	for col := 0; col < rec.Side; col++ {
		if top[frame[rec.Nodes-rec.Side+col]] {
			return true
		}
	}
	return false
}

// AssertPointCount asserts that the sweep produced exactly want points and
// one cluster snapshot per point.
func AssertPointCount(t *testing.T, rec SweepRecord, want int) {
	t.Helper()
	if len(rec.Points) != want {
		t.Errorf("AssertPointCount: %s: got %d points, want %d", rec.Name, len(rec.Points), want)
	}
	if len(rec.Frames) != len(rec.Points) {
		t.Errorf("AssertPointCount: %s: %d frames for %d points", rec.Name, len(rec.Frames), len(rec.Points))
	}
}

// AssertSmaxNonDecreasing asserts that the largest-cluster size never
// shrinks over the sweep.
func AssertSmaxNonDecreasing(t *testing.T, rec SweepRecord) {
	t.Helper()
	for i := 1; i < len(rec.Points); i++ {
		if rec.Points[i].Smax < rec.Points[i-1].Smax {
			t.Errorf("AssertSmaxNonDecreasing: %s: point %d: Smax %d < %d at p=%g",
				rec.Name, i, rec.Points[i].Smax, rec.Points[i-1].Smax, rec.Points[i].P)
		}
	}
}

// AssertNmaxTracksSmax asserts that every point's largest-cluster fraction
// equals its largest-cluster size divided by the node count.
func AssertNmaxTracksSmax(t *testing.T, rec SweepRecord) {
	t.Helper()
	for i, pt := range rec.Points {
		want := float64(pt.Smax) / float64(rec.Nodes)
		if pt.Nmax != want {
			t.Errorf("AssertNmaxTracksSmax: %s: point %d: Nmax %g, want %g", rec.Name, i, pt.Nmax, want)
		}
	}
}

// AssertSpanningLatched asserts that the cluster snapshots agree with the
// recorded percolation outcome: spanning appears at most once, never goes
// away, and its first p is the latched critical threshold.
func AssertSpanningLatched(t *testing.T, rec SweepRecord) {
	t.Helper()

	first := -1
	for i := range rec.Frames {
		spanning := SpanningAt(rec, i)
		if spanning && first == -1 {
			first = i
		}
		if !spanning && first != -1 {
			t.Errorf("AssertSpanningLatched: %s: spanning at point %d but gone at point %d", rec.Name, first, i)
		}
	}

	if (first != -1) != rec.Percolated {
		t.Errorf("AssertSpanningLatched: %s: snapshots say spanning=%v, record says %v",
			rec.Name, first != -1, rec.Percolated)
		return
	}
	if first != -1 && rec.PC != rec.Points[first].P {
		t.Errorf("AssertSpanningLatched: %s: first spanning at p=%g, latched p_c=%g",
			rec.Name, rec.Points[first].P, rec.PC)
	}
}

// AssertCriticalP asserts that the sweep percolated at exactly the given p.
func AssertCriticalP(t *testing.T, rec SweepRecord, want float64) {
	t.Helper()
	if !rec.Percolated {
		t.Errorf("AssertCriticalP: %s: sweep never percolated, want p_c=%g", rec.Name, want)
		return
	}
	if math.Abs(rec.PC-want) > 1e-9 {
		t.Errorf("AssertCriticalP: %s: p_c=%g, want %g", rec.Name, rec.PC, want)
	}
}

// AssertNeverPercolates asserts that no point of the sweep had a spanning
// cluster.
func AssertNeverPercolates(t *testing.T, rec SweepRecord) {
	t.Helper()
	if rec.Percolated {
		t.Errorf("AssertNeverPercolates: %s: percolated at p_c=%g", rec.Name, rec.PC)
	}
	for i := range rec.Frames {
		if SpanningAt(rec, i) {
			t.Errorf("AssertNeverPercolates: %s: snapshot %d contains a spanning cluster at p=%g",
				rec.Name, i, rec.Points[i].P)
			return
		}
	}
}

// AssertFullLatticeAtEnd asserts that the final point is one cluster
// covering every node. This holds whenever all thresholds are below 1.
func AssertFullLatticeAtEnd(t *testing.T, rec SweepRecord) {
	t.Helper()
	final := rec.Points[len(rec.Points)-1]
	if final.Ncc != 1 {
		t.Errorf("AssertFullLatticeAtEnd: %s: final Ncc=%d, want 1", rec.Name, final.Ncc)
	}
	if final.Smax != rec.Nodes {
		t.Errorf("AssertFullLatticeAtEnd: %s: final Smax=%d, want %d", rec.Name, final.Smax, rec.Nodes)
	}
	if final.Nmax != 1 {
		t.Errorf("AssertFullLatticeAtEnd: %s: final Nmax=%g, want 1", rec.Name, final.Nmax)
	}
}

// AssertArchiveRoundTrip asserts that the archived run matches what the
// sweep observed, field for field and point for point.
func AssertArchiveRoundTrip(t *testing.T, rec SweepRecord) {
	t.Helper()
	if rec.Stored == nil {
		t.Fatalf("AssertArchiveRoundTrip: %s: scenario did not archive", rec.Name)
	}

	final := rec.Points[len(rec.Points)-1]
	stored := rec.Stored
	if stored.Side != rec.Side || stored.Nodes != rec.Nodes {
		t.Errorf("AssertArchiveRoundTrip: %s: stored lattice %dx? (%d nodes), want %dx? (%d nodes)",
			rec.Name, stored.Side, stored.Nodes, rec.Side, rec.Nodes)
	}
	if stored.Seed != rec.Seed {
		t.Errorf("AssertArchiveRoundTrip: %s: stored seed %d, want %d", rec.Name, stored.Seed, rec.Seed)
	}
	if stored.Percolated != rec.Percolated || stored.PC != rec.PC {
		t.Errorf("AssertArchiveRoundTrip: %s: stored outcome (%v, %g), want (%v, %g)",
			rec.Name, stored.Percolated, stored.PC, rec.Percolated, rec.PC)
	}
	if stored.FinalNcc != final.Ncc || stored.FinalSmax != final.Smax || stored.FinalNmax != final.Nmax {
		t.Errorf("AssertArchiveRoundTrip: %s: stored finals (%d, %d, %g), want (%d, %d, %g)",
			rec.Name, stored.FinalNcc, stored.FinalSmax, stored.FinalNmax, final.Ncc, final.Smax, final.Nmax)
	}

	if len(rec.StoredPoints) != len(rec.Points) {
		t.Fatalf("AssertArchiveRoundTrip: %s: %d stored points, want %d",
			rec.Name, len(rec.StoredPoints), len(rec.Points))
	}
	for i := range rec.Points {
		if rec.StoredPoints[i] != rec.Points[i] {
			t.Errorf("AssertArchiveRoundTrip: %s: stored point %d = %+v, want %+v",
				rec.Name, i, rec.StoredPoints[i], rec.Points[i])
		}
	}
}

// FirstSpanningIndex returns the index of the first point whose snapshot
// contains a spanning cluster, or -1.
func FirstSpanningIndex(rec SweepRecord) int {
	for i := range rec.Frames {
		if SpanningAt(rec, i) {
			return i
		}
	}
	return -1
}
