package visualization

import "github.com/mtoledo/siteperc/internal/percolation"

// RunData is everything the lattice viewer needs: run parameters, the
// sweep curve, and per-p cluster frames. Frames are served by a separate
// endpoint and excluded from the run payload.
type RunData struct {
	Side       int                 `json:"side"`
	Nodes      int                 `json:"nodes"`
	Step       float64             `json:"step"`
	Seed       uint64              `json:"seed"`
	Percolated bool                `json:"percolated"`
	PC         float64             `json:"p_c"`
	Points     []percolation.Point `json:"points"`
	Frames     []Frame             `json:"-"`
}

// Frame is the cluster representative of every node at one p, in node
// order.
type Frame struct {
	P        float64 `json:"p"`
	Clusters []int   `json:"clusters"`
}

// FrameRecorder captures sweep output in memory for the viewer. It
// implements percolation.ClusterRecorder.
type FrameRecorder struct {
	points []percolation.Point
	frames []Frame
}

// NewFrameRecorder creates an empty recorder.
func NewFrameRecorder() *FrameRecorder {
	return &FrameRecorder{}
}

// RecordPoint stores one curve point.
func (r *FrameRecorder) RecordPoint(pt percolation.Point) error {
	r.points = append(r.points, pt)
	return nil
}

// RecordClusters stores one cluster frame. The slice is copied; the
// caller may reuse its own.
func (r *FrameRecorder) RecordClusters(p float64, clusters []int) error {
	frame := Frame{P: p, Clusters: make([]int, len(clusters))}
	copy(frame.Clusters, clusters)
	r.frames = append(r.frames, frame)
	return nil
}

// Points returns the recorded curve in sweep order.
func (r *FrameRecorder) Points() []percolation.Point {
	return r.points
}

// Frames returns the recorded cluster frames in sweep order.
func (r *FrameRecorder) Frames() []Frame {
	return r.frames
}
