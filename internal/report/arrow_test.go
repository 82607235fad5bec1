package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"

	"github.com/mtoledo/siteperc/internal/percolation"
)

func TestWriteArrow_RoundTrip(t *testing.T) {
	points := []percolation.Point{
		{P: 0, Ncc: 4, Smax: 1, Nmax: 0.25},
		{P: 0.5, Ncc: 2, Smax: 3, Nmax: 0.75},
		{P: 1, Ncc: 1, Smax: 4, Nmax: 1},
	}
	path := filepath.Join(t.TempDir(), "curve.arrow")

	if err := WriteArrow(path, points); err != nil {
		t.Fatalf("WriteArrow: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	fr, err := ipc.NewFileReader(f)
	if err != nil {
		t.Fatalf("NewFileReader: %v", err)
	}
	defer fr.Close()

	wantFields := []string{"p", "ncc", "smax", "nmax"}
	schema := fr.Schema()
	if len(schema.Fields()) != len(wantFields) {
		t.Fatalf("expected %d fields, got %d", len(wantFields), len(schema.Fields()))
	}
	for i, name := range wantFields {
		if got := schema.Field(i).Name; got != name {
			t.Errorf("field %d: expected %q, got %q", i, name, got)
		}
	}

	if fr.NumRecords() != 1 {
		t.Fatalf("expected 1 record batch, got %d", fr.NumRecords())
	}
	rec, err := fr.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rec.NumRows() != int64(len(points)) {
		t.Fatalf("expected %d rows, got %d", len(points), rec.NumRows())
	}

	pCol := rec.Column(0).(*array.Float64)
	nccCol := rec.Column(1).(*array.Int64)
	smaxCol := rec.Column(2).(*array.Int64)
	nmaxCol := rec.Column(3).(*array.Float64)
	for i, pt := range points {
		if pCol.Value(i) != pt.P {
			t.Errorf("row %d: p=%g, want %g", i, pCol.Value(i), pt.P)
		}
		if nccCol.Value(i) != int64(pt.Ncc) {
			t.Errorf("row %d: ncc=%d, want %d", i, nccCol.Value(i), pt.Ncc)
		}
		if smaxCol.Value(i) != int64(pt.Smax) {
			t.Errorf("row %d: smax=%d, want %d", i, smaxCol.Value(i), pt.Smax)
		}
		if nmaxCol.Value(i) != pt.Nmax {
			t.Errorf("row %d: nmax=%g, want %g", i, nmaxCol.Value(i), pt.Nmax)
		}
	}
}

func TestWriteArrow_SweepCurve(t *testing.T) {
	result := runTwoByTwo(t, nil)
	path := filepath.Join(t.TempDir(), "curve.arrow")

	if err := WriteArrow(path, result.Points); err != nil {
		t.Fatalf("WriteArrow: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	fr, err := ipc.NewFileReader(f)
	if err != nil {
		t.Fatalf("NewFileReader: %v", err)
	}
	defer fr.Close()

	rec, err := fr.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rec.NumRows() != int64(len(result.Points)) {
		t.Errorf("expected %d rows, got %d", len(result.Points), rec.NumRows())
	}
}

func TestWriteArrow_MissingDir(t *testing.T) {
	err := WriteArrow(filepath.Join(t.TempDir(), "absent", "curve.arrow"), nil)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}
