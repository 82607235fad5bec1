package report

import (
	"github.com/mtoledo/siteperc/internal/percolation"
)

// MultiRecorder fans every sweep observation out to a set of child
// recorders in registration order. The first child error aborts the fan-out
// and is returned to the sweep.
type MultiRecorder struct {
	recorders []percolation.Recorder
}

// NewMultiRecorder wraps the given recorders. Nil entries are skipped.
func NewMultiRecorder(recorders ...percolation.Recorder) *MultiRecorder {
	m := &MultiRecorder{}
	for _, r := range recorders {
		if r != nil {
			m.recorders = append(m.recorders, r)
		}
	}
	return m
}

// RecordPoint forwards the point to every child.
func (m *MultiRecorder) RecordPoint(pt percolation.Point) error {
	for _, r := range m.recorders {
		if err := r.RecordPoint(pt); err != nil {
			return err
		}
	}
	return nil
}

// RecordClusters forwards the cluster assignment to the children that
// accept one.
func (m *MultiRecorder) RecordClusters(p float64, clusters []int) error {
	for _, r := range m.recorders {
		cr, ok := r.(percolation.ClusterRecorder)
		if !ok {
			continue
		}
		if err := cr.RecordClusters(p, clusters); err != nil {
			return err
		}
	}
	return nil
}
