// Package report writes sweep results to external sinks: the summary and
// per-node CSV tables and an Arrow IPC export of the curve.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mtoledo/siteperc/internal/percolation"
)

// File names of the two CSV tables written into a report directory.
const (
	ReportFileName   = "percolation_report.csv"
	ClustersFileName = "cluster_of_each_node.csv"
)

// formatFloat renders a float the way the tables expect: six significant
// digits, shortest form, no trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// CSVRecorder writes the summary table, one row per sweep point. It
// implements percolation.Recorder.
type CSVRecorder struct {
	f *os.File
	w *csv.Writer
}

// NewCSVRecorder creates percolation_report.csv inside dir and writes the
// header row. The recorder must be closed to flush buffered rows.
func NewCSVRecorder(dir string) (*CSVRecorder, error) {
	f, err := os.Create(filepath.Join(dir, ReportFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"p", "Ncc", "Smax", "Nmax"}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}
	return &CSVRecorder{f: f, w: w}, nil
}

// RecordPoint appends one summary row.
func (r *CSVRecorder) RecordPoint(pt percolation.Point) error {
	row := []string{
		formatFloat(pt.P),
		strconv.Itoa(pt.Ncc),
		strconv.Itoa(pt.Smax),
		formatFloat(pt.Nmax),
	}
	if err := r.w.Write(row); err != nil {
		return fmt.Errorf("failed to write report row: %w", err)
	}
	return nil
}

// Close flushes buffered rows and closes the file.
func (r *CSVRecorder) Close() error {
	r.w.Flush()
	err := r.w.Error()
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// ClusterCSVRecorder writes both tables: the summary rows via the embedded
// CSVRecorder and cluster_of_each_node.csv with one representative id per
// node per sweep point. It implements percolation.ClusterRecorder.
type ClusterCSVRecorder struct {
	*CSVRecorder
	cf *os.File
	cw *csv.Writer
}

// NewClusterCSVRecorder creates both CSV files inside dir with their header
// rows. nodes fixes the width of the per-node table.
func NewClusterCSVRecorder(dir string, nodes int) (*ClusterCSVRecorder, error) {
	base, err := NewCSVRecorder(dir)
	if err != nil {
		return nil, err
	}
	f, err := os.Create(filepath.Join(dir, ClustersFileName))
	if err != nil {
		base.Close()
		return nil, fmt.Errorf("failed to create clusters file: %w", err)
	}

	header := make([]string, 0, nodes+1)
	header = append(header, "p")
	for i := 0; i < nodes; i++ {
		header = append(header, "Node_"+strconv.Itoa(i))
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		base.Close()
		return nil, fmt.Errorf("failed to write clusters header: %w", err)
	}
	return &ClusterCSVRecorder{CSVRecorder: base, cf: f, cw: w}, nil
}

// RecordClusters appends one per-node row at the given p.
func (r *ClusterCSVRecorder) RecordClusters(p float64, clusters []int) error {
	row := make([]string, 0, len(clusters)+1)
	row = append(row, formatFloat(p))
	for _, id := range clusters {
		row = append(row, strconv.Itoa(id))
	}
	if err := r.cw.Write(row); err != nil {
		return fmt.Errorf("failed to write clusters row: %w", err)
	}
	return nil
}

// Close flushes and closes both files, returning the first error seen.
func (r *ClusterCSVRecorder) Close() error {
	r.cw.Flush()
	err := r.cw.Error()
	if cerr := r.cf.Close(); err == nil {
		err = cerr
	}
	if berr := r.CSVRecorder.Close(); err == nil {
		err = berr
	}
	return err
}
