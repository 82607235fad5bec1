package simulation

import (
	"github.com/mtoledo/siteperc/internal/percolation"
	"github.com/mtoledo/siteperc/internal/store"
)

// Scenario defines a complete sweep experiment.
type Scenario struct {
	Name string
	Side int

	// Thresholds pins every node's activation threshold, in node order.
	// Values above 1 keep a node inactive through the whole sweep, which is
	// how scenarios model blocked sites. When nil, thresholds are drawn
	// from Seed.
	Thresholds []float64

	Seed uint64
	Step float64 // 0 = 0.05

	// Archive saves the finished run in the runner's isolated store and
	// reloads it, filling the record's Stored fields.
	Archive bool
}

// SweepRecord captures everything a scenario sweep observed: the summary
// points, the per-node cluster representatives at each point, and the
// spanning outcome.
type SweepRecord struct {
	Name       string
	Side       int
	Nodes      int
	Seed       uint64
	Step       float64
	Points     []percolation.Point
	Frames     [][]int
	Percolated bool
	PC         float64

	// Stored carries the archived run and its reloaded curve when the
	// scenario asked for archiving.
	Stored       *store.Run
	StoredPoints []percolation.Point
}

// capture buffers every point and cluster snapshot of a sweep. It implements
// percolation.ClusterRecorder.
type capture struct {
	points []percolation.Point
	frames [][]int
}

func (c *capture) RecordPoint(pt percolation.Point) error {
	c.points = append(c.points, pt)
	return nil
}

func (c *capture) RecordClusters(p float64, clusters []int) error {
	snapshot := make([]int, len(clusters))
	copy(snapshot, clusters)
	c.frames = append(c.frames, snapshot)
	return nil
}
